package bookctl

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bookstore-admin/internal/submission"
)

// draftFile is the on-disk shape of a draft. Attachment paths are resolved
// relative to the YAML file.
type draftFile struct {
	submission.Draft `yaml:",inline"`
	Attachments      map[string]string `yaml:"attachments"`
}

// loadDraft reads a YAML draft and the attachment files it names.
func loadDraft(path string) (submission.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return submission.Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var df draftFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return submission.Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}

	draft := df.Draft
	draft.Attachments = make(map[submission.Slot]submission.Attachment, len(df.Attachments))

	slots := make([]string, 0, len(df.Attachments))
	for slot := range df.Attachments {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	base := filepath.Dir(path)
	for _, name := range slots {
		slot := submission.Slot(name)
		if !knownSlot(slot) {
			return submission.Draft{}, fmt.Errorf("%w: %q", submission.ErrUnknownSlot, name)
		}
		file := strings.TrimSpace(df.Attachments[name])
		if file == "" {
			continue
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		att, err := readAttachment(file)
		if err != nil {
			return submission.Draft{}, fmt.Errorf("attachment %s: %w", name, err)
		}
		draft.Attachments[slot] = att
	}
	return draft, nil
}

func readAttachment(path string) (submission.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return submission.Attachment{}, err
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return submission.Attachment{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func knownSlot(slot submission.Slot) bool {
	return slot == submission.SlotDocument || slices.Contains(submission.ImageSlots, slot)
}
