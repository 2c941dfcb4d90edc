package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptFrontmatter is parsed from YAML frontmatter in prompt files.
type promptFrontmatter struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
}

type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
}

// registerPrompts registers every embedded markdown prompt.
func (s *Server) registerPrompts() {
	for _, p := range loadPrompts() {
		s.server.AddPrompt(p.prompt, makePromptHandler(p.frontmatter, p.body))
	}
}

type embeddedPrompt struct {
	prompt      *mcp.Prompt
	frontmatter promptFrontmatter
	body        string
}

func loadPrompts() []embeddedPrompt {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil
	}

	var prompts []embeddedPrompt
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			continue
		}

		fm, body := parseFrontmatter(content)

		prompt := &mcp.Prompt{
			Name:        strings.TrimSuffix(entry.Name(), ".md"),
			Description: fm.Description,
		}
		for _, arg := range fm.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        arg.Name,
				Description: arg.Description,
			})
		}
		prompts = append(prompts, embeddedPrompt{prompt: prompt, frontmatter: fm, body: body})
	}
	return prompts
}

// parseFrontmatter splits YAML frontmatter from the prompt body.
func parseFrontmatter(content []byte) (promptFrontmatter, string) {
	var fm promptFrontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content)
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return fm, string(content)
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return promptFrontmatter{}, string(content)
	}

	return fm, strings.TrimPrefix(string(rest[end+5:]), "\n")
}

// substituteArgs replaces {{name}} placeholders, falling back to each argument's default.
func substituteArgs(body string, fm promptFrontmatter, args map[string]string) string {
	for _, arg := range fm.Arguments {
		value := args[arg.Name]
		if value == "" {
			value = arg.Default
		}
		body = strings.ReplaceAll(body, "{{"+arg.Name+"}}", value)
	}
	return body
}

func makePromptHandler(fm promptFrontmatter, body string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		return &mcp.GetPromptResult{
			Description: fm.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: substituteArgs(body, fm, args)},
				},
			},
		}, nil
	}
}
