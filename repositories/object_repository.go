package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound indica que el objeto no existe o la ruta no es válida
	ErrObjectNotFound = errors.New("repositories: object not found")
)

// ObjectFile es un objeto abierto para lectura. El llamador debe cerrar Content.
type ObjectFile struct {
	Content io.ReadSeekCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// ObjectRepository guarda y sirve las imágenes subidas desde el panel
type ObjectRepository interface {
	SaveObject(ctx context.Context, objectPath string, content io.Reader) (int64, error)
	OpenObject(ctx context.Context, objectPath string) (ObjectFile, error)
}

// LocalObjectRepository guarda los objetos en un directorio local
type LocalObjectRepository struct {
	root string
}

// NewLocalObjectRepository crea el directorio raíz si no existe
func NewLocalObjectRepository(root string) (*LocalObjectRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("repositories: create objects dir: %w", err)
	}
	return &LocalObjectRepository{root: root}, nil
}

// SaveObject escribe el contenido en un archivo temporal y lo renombra al terminar
func (r *LocalObjectRepository) SaveObject(ctx context.Context, objectPath string, content io.Reader) (int64, error) {
	target, ok := r.resolve(objectPath)
	if !ok {
		return 0, fmt.Errorf("repositories: save object %q: invalid path", objectPath)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("repositories: save object: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("repositories: save object: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, content)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("repositories: save object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("repositories: save object: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("repositories: save object: %w", err)
	}
	return written, nil
}

// OpenObject abre un objeto guardado
func (r *LocalObjectRepository) OpenObject(ctx context.Context, objectPath string) (ObjectFile, error) {
	target, ok := r.resolve(objectPath)
	if !ok {
		return ObjectFile{}, ErrObjectNotFound
	}

	file, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ObjectFile{}, ErrObjectNotFound
		}
		return ObjectFile{}, fmt.Errorf("repositories: open object: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return ObjectFile{}, fmt.Errorf("repositories: open object: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return ObjectFile{}, ErrObjectNotFound
	}

	return ObjectFile{
		Content: file,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// resolve limpia la ruta y la ancla dentro del directorio raíz
func (r *LocalObjectRepository) resolve(objectPath string) (string, bool) {
	cleaned := strings.TrimPrefix(path.Clean("/"+objectPath), "/")
	if cleaned == "" || strings.HasPrefix(path.Base(cleaned), ".") {
		return "", false
	}
	return filepath.Join(r.root, filepath.FromSlash(cleaned)), true
}
