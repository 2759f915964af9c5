package toolbox

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

// Resolve checks that the toolbox exists on disk and, where the format allows
// it, that the named tool is present. This runs before any network call, so a
// bad tool reference never triggers a sign-in or a trial run.
//
// Modern .atbx toolboxes are zip archives containing one top-level
// "<ToolName>.tool/" folder per tool, which makes the tool list inspectable
// without the vendor runtime. Legacy binary .tbx and python .pyt toolboxes
// are opaque, so only their existence is checked and the tool name is left to
// the execution environment to reject.
func Resolve(toolboxPath, toolName string) error {
	if !utils.FileExists(toolboxPath) {
		return &models.UsageError{Err: fmt.Errorf("toolbox not found: %s", toolboxPath)}
	}

	if strings.ToLower(filepath.Ext(toolboxPath)) != ".atbx" {
		return nil
	}

	tools, err := ListTools(toolboxPath)
	if err != nil {
		return &models.UsageError{Err: fmt.Errorf("reading toolbox %s: %w", toolboxPath, err)}
	}

	for _, tool := range tools {
		if tool == toolName {
			return nil
		}
	}

	return &models.UsageError{
		Err: fmt.Errorf("%w: %s (toolbox contains: %s)",
			models.ErrToolNotFound, toolName, strings.Join(tools, ", ")),
	}
}

// ListTools enumerates the tools of an .atbx toolbox.
func ListTools(toolboxPath string) ([]string, error) {
	archive, err := zip.OpenReader(toolboxPath)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	seen := map[string]bool{}
	for _, file := range archive.File {
		first := strings.SplitN(filepath.ToSlash(file.Name), "/", 2)[0]
		if strings.HasSuffix(first, ".tool") {
			seen[strings.TrimSuffix(first, ".tool")] = true
		}
	}

	tools := make([]string, 0, len(seen))
	for tool := range seen {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools, nil
}
