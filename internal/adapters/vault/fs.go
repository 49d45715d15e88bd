package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tg-vault-notifier/internal/domain"
)

// FS читает заметки из каталога на диске. Хранилищем считаются все
// markdown-файлы внутри каталога, включая подкаталоги; скрытые каталоги
// (например, .obsidian) не обходятся.
type FS struct {
	root string
}

var _ domain.Vault = (*FS)(nil)

// NewFS создаёт адаптер над каталогом заметок.
func NewFS(root string) *FS {
	return &FS{root: root}
}

// ListNotes перечисляет заметки в порядке обхода каталога. Имя заметки —
// имя файла без расширения.
func (v *FS) ListNotes(ctx context.Context) ([]domain.NoteInfo, error) {
	var notes []domain.NoteInfo
	err := filepath.WalkDir(v.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if entry.IsDir() {
			if path != v.root && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			// файл исчез между обходом и stat
			return nil
		}
		notes = append(notes, domain.NoteInfo{
			Name:       strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:       path,
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("обход каталога %s: %w", v.root, err)
	}
	return notes, nil
}

// ReadNote возвращает текущее содержимое заметки.
func (v *FS) ReadNote(ctx context.Context, note domain.NoteInfo) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(note.Path)
	if err != nil {
		return "", fmt.Errorf("чтение %s: %w", note.Path, err)
	}
	return string(raw), nil
}
