package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacksmith/shelf/internal/model"
)

// LinkDocument is the editable form of a link.
type LinkDocument struct {
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Folder string `yaml:"folder"`
}

// NewLinkDocument returns the editable fields of l.
func NewLinkDocument(l *model.Link) LinkDocument {
	return LinkDocument{Title: l.Title, URL: l.URL, Folder: l.FolderName()}
}

// FolderPtr returns the folder as stored on a link; blank means unfiled.
func (d LinkDocument) FolderPtr() *string {
	return model.Folder(d.Folder)
}

const linkDocumentHeader = "# Edit the link below. Leave folder empty for unfiled.\n"

// EditLink opens l in the user's editor as YAML and parses the result.
func EditLink(l *model.Link) (LinkDocument, error) {
	var buf bytes.Buffer
	buf.WriteString(linkDocumentHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewLinkDocument(l)); err != nil {
		return LinkDocument{}, fmt.Errorf("failed to encode link: %w", err)
	}
	enc.Close()

	edited, err := EditInEditor(buf.Bytes(), ".yaml")
	if err != nil {
		return LinkDocument{}, err
	}
	return ParseLinkDocument(edited)
}

// ParseLinkDocument decodes an edited link and checks the URL is present.
func ParseLinkDocument(data []byte) (LinkDocument, error) {
	var doc LinkDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return LinkDocument{}, fmt.Errorf("failed to parse edited link: %w", err)
	}
	doc.Title = strings.TrimSpace(doc.Title)
	doc.URL = strings.TrimSpace(doc.URL)
	if doc.URL == "" {
		return LinkDocument{}, &ValidationError{Field: "url", Message: "must not be empty"}
	}
	return doc, nil
}

// EditInEditor opens content in $EDITOR and returns modified content.
// The suffix is used for the temporary file (e.g., ".yaml" for syntax highlighting).
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or use flags instead of -i")
	}

	tmpFile, err := os.CreateTemp("", "shelf-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

// getEditor checks VISUAL first, then EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor executes the editor with the given file path. Editors with
// arguments ("code --wait") are split on whitespace.
func runEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
