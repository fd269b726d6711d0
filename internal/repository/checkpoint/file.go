package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// DefaultFilename is where the installer keeps its checkpoint.
const DefaultFilename = ".mcl-installer.checkpoint.json"

// filePermissions restricts the checkpoint to the current user.
const filePermissions = 0o600

// Field names of the persisted document.
const (
	fieldURL         = "url"
	fieldDestination = "destination"
	fieldTotal       = "total"
	fieldTransferred = "transferred"
)

var (
	// ErrNotFound is returned when no checkpoint has been written yet.
	ErrNotFound = errors.New("checkpoint not found")

	errInvalidCheckpoint = errors.New("invalid checkpoint")
)

// Repository defines persistence operations for a download checkpoint.
type Repository interface {
	Load(ctx context.Context) (*install.DownloadTask, error)
	Save(ctx context.Context, task *install.DownloadTask) error
	Delete(ctx context.Context) error
}

// FileRepository stores the checkpoint as a JSON file on disk.
// The document is a protobuf Struct encoded with protojson.
type FileRepository struct {
	// path is the filesystem location of the checkpoint.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the checkpoint from disk.
func (r *FileRepository) Load(_ context.Context) (*install.DownloadTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read checkpoint %s: %w: %w", r.path, install.ErrFilesystem, err)
	}

	var doc structpb.Struct
	if err = protojson.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", r.path, err)
	}

	return fromStruct(&doc)
}

// Save writes the checkpoint to disk.
func (r *FileRepository) Save(_ context.Context, task *install.DownloadTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := toStruct(task)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Indent: "  "}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	if err = os.WriteFile(r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write checkpoint %s: %w: %w", r.path, install.ErrFilesystem, err)
	}

	return nil
}

// Delete removes the checkpoint. A missing file is not an error.
func (r *FileRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove checkpoint %s: %w: %w", r.path, install.ErrFilesystem, err)
	}

	return nil
}

// toStruct converts a task into its persisted form.
// Sizes are stored as JSON numbers; archives stay far below 2^53 bytes.
func toStruct(task *install.DownloadTask) (*structpb.Struct, error) {
	doc, err := structpb.NewStruct(map[string]any{
		fieldURL:         task.URL,
		fieldDestination: task.Destination,
		fieldTotal:       task.Total,
		fieldTransferred: task.Transferred,
	})
	if err != nil {
		return nil, fmt.Errorf("build checkpoint: %w", err)
	}

	return doc, nil
}

// fromStruct converts the persisted form back into a task.
func fromStruct(doc *structpb.Struct) (*install.DownloadTask, error) {
	fields := doc.GetFields()

	task := &install.DownloadTask{
		URL:         fields[fieldURL].GetStringValue(),
		Destination: fields[fieldDestination].GetStringValue(),
		Total:       int64(fields[fieldTotal].GetNumberValue()),
		Transferred: int64(fields[fieldTransferred].GetNumberValue()),
	}

	if task.URL == "" || task.Destination == "" || task.Total < 0 ||
		task.Transferred < 0 || task.Transferred > task.Total {
		return nil, errInvalidCheckpoint
	}

	return task, nil
}
