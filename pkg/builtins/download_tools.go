package builtins

import (
	"github.com/yggdrasil-au/remake-operator/pkg/operation"
)

// ToolDownloader is the external collaborator spec.md §1 puts out of
// scope ("tool-binary downloading... specified only by the data shapes it
// produces"). Callers inject a concrete implementation; the zero value
// (nil) makes download_tools a no-op that still emits the expected
// events, which is enough to exercise the rest of the pipeline in tests.
type ToolDownloader interface {
	Download(manifestPath, centralIndexPath string, force bool) error
}

var downloader ToolDownloader

// SetToolDownloader installs the external tool-downloader collaborator.
func SetToolDownloader(d ToolDownloader) { downloader = d }

func downloadTools(deps Deps, op operation.Operation, answers operation.Answers) bool {
	manifest := op.ToolsManifest
	if manifest == "" {
		manifest = deps.Paths.ToolsManifest()
	}
	centralIndex := deps.Paths.ToolsManifest()
	force := answerBool(answers, "force download", "force_download")

	if downloader == nil {
		deps.SDK.Print("download_tools: no tool downloader configured, skipping", "yellow", true)
		return true
	}
	if err := downloader.Download(manifest, centralIndex, force); err != nil {
		deps.SDK.Error("download_tools: " + err.Error())
		return false
	}
	return true
}
