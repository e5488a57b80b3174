// Package editor backs the built-in text editor: deciding whether a file
// is editable text, reading it as UTF-8 regardless of its on-disk
// charset, and saving it back.
package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// MaxFileSize bounds what the editor loads into memory.
const MaxFileSize = 8 << 20

// ErrNotText rejects binary files.
var ErrNotText = fmt.Errorf("not a text file")

// ErrTooLarge rejects files above MaxFileSize.
var ErrTooLarge = fmt.Errorf("file too large to edit")

// Document is a loaded text file, normalized to UTF-8.
type Document struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Charset  string `json:"charset"`
	MimeType string `json:"mime_type"`
	CRLF     bool   `json:"crlf"`
}

// Service reads and writes editable documents.
type Service struct {
	log *zap.Logger
}

// NewService builds an editor Service. Logger may be nil.
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// IsText sniffs a file's content and reports whether the editor can
// open it.
func (s *Service) IsText(path string) (bool, string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, "", err
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true, mt.String(), nil
		}
	}
	return false, mt.String(), nil
}

// Open loads a file as a UTF-8 document, detecting and converting its
// charset. Line endings are normalized to LF, with the original flavor
// recorded so Save can restore it.
func (s *Service) Open(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
	}
	if info.Size() == 0 {
		return &Document{Path: path, Charset: "UTF-8", MimeType: "text/plain"}, nil
	}

	ok, mime, err := s.IsText(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotText, path, mime)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	charset, text, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	crlf := strings.Contains(text, "\r\n")
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	s.log.Debug("document opened",
		zap.String("path", path),
		zap.String("charset", charset),
		zap.Int("bytes", len(raw)))
	return &Document{
		Path:     path,
		Content:  text,
		Charset:  charset,
		MimeType: mime,
		CRLF:     crlf,
	}, nil
}

// Save writes the document's content back to its path as UTF-8,
// restoring the original line-ending flavor. The write goes through a
// temp file so a crash cannot truncate the original.
func (s *Service) Save(doc *Document) error {
	text := doc.Content
	if doc.CRLF {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}

	tmp := doc.Path + ".saving"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	if err := os.Rename(tmp, doc.Path); err != nil {
		return fmt.Errorf("save %s: %w", doc.Path, err)
	}
	s.log.Info("document saved", zap.String("path", doc.Path), zap.Int("bytes", len(text)))
	return nil
}

// decode converts raw bytes to UTF-8, returning the detected charset.
// Valid UTF-8 passes through; anything else goes through chardet and the
// matching decoder.
func decode(raw []byte) (string, string, error) {
	if len(raw) == 0 {
		return "UTF-8", "", nil
	}

	// Strip a UTF-8 BOM if present.
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		return "UTF-8", string(raw[3:]), nil
	}

	det := chardet.NewTextDetector()
	result, err := det.DetectBest(raw)
	if err != nil {
		// Undetectable but it sniffed as text; assume UTF-8.
		return "UTF-8", string(raw), nil
	}

	switch result.Charset {
	case "UTF-8", "ISO-8859-1,I", "":
		return "UTF-8", string(raw), nil
	case "UTF-16LE":
		return decodeWith(result.Charset, raw, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes)
	case "UTF-16BE":
		return decodeWith(result.Charset, raw, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes)
	}

	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		return "UTF-8", string(raw), nil
	}
	return decodeWith(result.Charset, raw, enc.NewDecoder().Bytes)
}

func decodeWith(charset string, raw []byte, conv func([]byte) ([]byte, error)) (string, string, error) {
	out, err := conv(raw)
	if err != nil {
		return "", "", err
	}
	return charset, string(out), nil
}
