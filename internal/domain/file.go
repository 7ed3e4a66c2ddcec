package domain

// DownloadMode filters which file types a batch download includes.
type DownloadMode string

const (
	ModeAll       DownloadMode = "all"
	ModeDocuments DownloadMode = "documents"
	ModeMedia     DownloadMode = "media"
)

// FileDescriptor identifies one downloadable file extracted from a message
// envelope. Extension is empty when Name already carries one.
type FileDescriptor struct {
	RemoteFileID string
	Name         string
	Extension    string
}

// FileName returns the on-disk name for the file.
func (f FileDescriptor) FileName() string {
	if f.Extension == "" {
		return f.Name
	}
	return f.Name + "." + f.Extension
}

// FileCounts holds per-type file tallies for a chat.
type FileCounts struct {
	Photo    int
	GIF      int
	Video    int
	Sticker  int
	Document int
	Voice    int
}

func (c FileCounts) Total() int {
	return c.Photo + c.GIF + c.Video + c.Sticker + c.Document + c.Voice
}
