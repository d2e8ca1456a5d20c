package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"hors-serie-api/repositories"
	"hors-serie-api/utils"
)

const (
	// UploadTokenTTL es la validez de una URL de subida
	UploadTokenTTL = 15 * time.Minute
	// DefaultMaxUploadBytes es el tamaño máximo de una imagen
	DefaultMaxUploadBytes int64 = 10 << 20

	uploadsPrefix = "uploads/"
	objectsRoute  = "/objects/"
)

// ObjectService emite URLs de subida y sirve los objetos guardados
type ObjectService interface {
	UploadURL(ctx context.Context) (string, error)
	Upload(ctx context.Context, token string, content io.Reader) (string, error)
	Open(ctx context.Context, objectPath string) (repositories.ObjectFile, error)
}

// ObjectOptions configura el ObjectService
type ObjectOptions struct {
	PublicBaseURL  string
	MaxUploadBytes int64
}

type objectService struct {
	repo     repositories.ObjectRepository
	signer   *utils.TokenSigner
	baseURL  string
	maxBytes int64
	newID    func() string
}

// NewObjectService crea una nueva instancia de ObjectService
func NewObjectService(repo repositories.ObjectRepository, signer *utils.TokenSigner, opts ObjectOptions) ObjectService {
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &objectService{
		repo:     repo,
		signer:   signer,
		baseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		maxBytes: maxBytes,
		newID:    uuid.NewString,
	}
}

// UploadURL reserva un nombre de objeto y firma una URL de subida de un solo destino
func (s *objectService) UploadURL(ctx context.Context) (string, error) {
	objectPath := uploadsPrefix + s.newID()

	token, err := s.signer.SignUpload(objectPath, UploadTokenTTL)
	if err != nil {
		return "", fmt.Errorf("services: upload url: %w", err)
	}
	return s.baseURL + objectsRoute + "upload/" + token, nil
}

// Upload guarda el contenido en la ruta firmada y devuelve la ruta pública del objeto
func (s *objectService) Upload(ctx context.Context, token string, content io.Reader) (string, error) {
	objectPath, err := s.signer.ParseUpload(token)
	if err != nil {
		return "", ErrInvalidUploadToken
	}

	limited := &limitedReader{r: content, remaining: s.maxBytes}
	if _, err := s.repo.SaveObject(ctx, objectPath, limited); err != nil {
		if errors.Is(err, ErrObjectTooLarge) {
			return "", ErrObjectTooLarge
		}
		return "", fmt.Errorf("services: upload: %w", err)
	}
	return objectsRoute + objectPath, nil
}

// Open abre un objeto por su ruta (sin el prefijo /objects/)
func (s *objectService) Open(ctx context.Context, objectPath string) (repositories.ObjectFile, error) {
	file, err := s.repo.OpenObject(ctx, strings.TrimPrefix(objectPath, "/"))
	if err != nil {
		if errors.Is(err, repositories.ErrObjectNotFound) {
			return repositories.ObjectFile{}, err
		}
		return repositories.ObjectFile{}, fmt.Errorf("services: open object: %w", err)
	}
	return file, nil
}

// limitedReader falla con ErrObjectTooLarge al superar el límite
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrObjectTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrObjectTooLarge
	}
	return n, err
}
