package mcpserver

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/unused-files-seeker/internal/output"
	"github.com/panbanda/unused-files-seeker/internal/service/seeker"
	"github.com/panbanda/unused-files-seeker/pkg/config"
)

// FindUnusedInput is the input for the find_unused_files tool.
type FindUnusedInput struct {
	Project string `json:"project,omitempty" jsonschema:"Project root directory. Defaults to the current directory."`
	Config  string `json:"config,omitempty" jsonschema:"Configuration file path, relative to the project root. Defaults to unused-files-seeker.config.* in the project root."`
	Format  string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, markdown, or text."`
}

func getProject(input FindUnusedInput) string {
	if input.Project == "" {
		return "."
	}
	return input.Project
}

func getFormat(input FindUnusedInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	case "text":
		return output.FormatText
	default:
		return output.FormatTOON
	}
}

func loadConfig(root, path string) (*config.Config, error) {
	if path == "" {
		cfg, _, err := config.LoadOrDefault(root)
		return cfg, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return config.Load(path)
}

func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	var (
		text string
		err  error
	)
	switch format {
	case output.FormatJSON, output.FormatTOON:
		text, err = output.Marshal(format, r.RenderData())
	default:
		text, err = output.Render(format, r)
	}
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleFindUnusedFiles(ctx context.Context, req *mcp.CallToolRequest, input FindUnusedInput) (*mcp.CallToolResult, any, error) {
	root := getProject(input)

	cfg, err := loadConfig(root, input.Config)
	if err != nil {
		return toolError(err.Error())
	}

	result, err := seeker.New().Run(ctx, root, cfg)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(result, getFormat(input))
}
