package export

import (
	"errors"
	"log/slog"

	"cinetag/internal/cinematic"
	"cinetag/internal/logging"
	"cinetag/internal/services"
	"cinetag/internal/tag"
	"cinetag/internal/tagsync"
)

// tagFiles holds the locked tag files of one scene.
type tagFiles struct {
	scene *tag.File
	data  *tag.File
}

func openTargets(scene *cinematic.Scene) (*tagFiles, error) {
	files := &tagFiles{}
	var err error
	files.scene, err = openTag(scene.Paths.Tag, cinematic.GroupScene)
	if err != nil {
		return nil, err
	}
	if scene.Schema.Split() {
		files.data, err = openTag(scene.Paths.DataTag, cinematic.GroupSceneData)
		if err != nil {
			_ = files.scene.Close()
			return nil, err
		}
	}
	return files, nil
}

func openTag(path, group string) (*tag.File, error) {
	f, err := tag.Open(path, group)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, tag.ErrLocked):
		return nil, services.Wrap(services.ErrConflict, "export", "open tag", "", err)
	case errors.Is(err, tag.ErrFormat), errors.Is(err, tag.ErrGroupMismatch):
		return nil, services.Wrap(services.ErrValidation, "export", "open tag", "", err)
	default:
		return nil, services.Wrap(services.ErrTransient, "export", "open tag", "", err)
	}
}

func (f *tagFiles) targets() tagsync.Targets {
	t := tagsync.Targets{Scene: f.scene.Tag()}
	if f.data != nil {
		t.Data = f.data.Tag()
	}
	return t
}

func (f *tagFiles) list() []*tag.File {
	if f.data != nil {
		return []*tag.File{f.data, f.scene}
	}
	return []*tag.File{f.scene}
}

func (f *tagFiles) backup() error {
	for _, file := range f.list() {
		if err := file.Backup(); err != nil {
			return err
		}
	}
	return nil
}

// commit writes the data tag before the scene tag.
func (f *tagFiles) commit() error {
	for _, file := range f.list() {
		if err := file.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (f *tagFiles) close(logger *slog.Logger) {
	for _, file := range f.list() {
		if err := file.Close(); err != nil {
			logging.WarnWithContext(logger, "tag unlock failed", "tag_unlock_failed",
				logging.String(logging.FieldTag, file.Path()),
				logging.String(logging.FieldImpact, "a stale lock file may block the next export"),
				logging.Error(err),
			)
		}
	}
}
