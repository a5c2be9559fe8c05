package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name      string
		language  string
		path      string
		firstLine string
		want      string
	}{
		{name: "extension", path: "src/main.go", want: "Go"},
		{name: "extension case", path: "README.MD", want: "Markdown"},
		{name: "language name beats extension", language: "python", path: "main.go", want: "Python"},
		{name: "language alias", language: "rs", want: "Rust"},
		{name: "language as extension", language: "yml", want: "YAML"},
		{name: "unknown language falls through", language: "klingon", path: "app.rb", want: "Ruby"},
		{name: "filename", path: "/home/me/.bashrc", want: "Shell"},
		{name: "makefile", path: "Makefile", want: "Makefile"},
		{name: "gnu makefile", path: "build/GNUmakefile", want: "Makefile"},
		{name: "lowercase dockerfile", path: "dockerfile", want: "Dockerfile"},
		{name: "dockerfile", path: "Dockerfile", want: "Dockerfile"},
		{name: "shebang python", path: "script", firstLine: "#!/usr/bin/env python3\n", want: "Python"},
		{name: "shebang bash", path: "run", firstLine: "#!/bin/bash\r\n", want: "Shell"},
		{name: "shebang node", firstLine: "#!/usr/bin/env node\n", want: "JavaScript"},
		{name: "extension beats shebang", path: "tool.rb", firstLine: "#!/bin/sh\n", want: "Ruby"},
		{name: "csharp", path: "src/Program.cs", want: "C#"},
		{name: "csharp alias", language: "csharp", want: "C#"},
		{name: "kotlin script", path: "build.gradle.kts", want: "Kotlin"},
		{name: "swift", path: "App.swift", want: "Swift"},
		{name: "haskell", path: "Main.hs", want: "Haskell"},
		{name: "php", path: "index.php", want: "PHP"},
		{name: "shebang php", path: "tool", firstLine: "#!/usr/bin/env php\n", want: "PHP"},
		{name: "shebang must lead", firstLine: "  #!/bin/sh\n", want: PlainTextName},
		{name: "unknown extension", path: "notes.zzz", want: PlainTextName},
		{name: "nothing to go on", want: PlainTextName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Select(d, tt.language, tt.path, tt.firstLine)
			require.NotNil(t, g)
			require.Equal(t, tt.want, g.Name)
		})
	}
}
