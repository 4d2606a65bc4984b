package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lumen/internal/config"
	"lumen/internal/models"
	"lumen/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultAssetDir         = "/tmp/lumen/assets"
	DefaultAssetMaxUploadMB = 10
	AssetMaxDimension       = 2048
	AssetWebPQuality        = 75
)

// AssetStore accepts client-supplied images as base64 data URLs,
// normalizes them to WebP, and serves them from disk. Identical
// content from the same owner is deduplicated by hash.
type AssetStore struct {
	repo               repository.AssetRepository
	baseDir            string
	maxUploadSizeBytes int64
}

func NewAssetStore(repo repository.AssetRepository, cfg *config.Config) *AssetStore {
	baseDir := DefaultAssetDir
	maxUploadMB := DefaultAssetMaxUploadMB

	if cfg != nil {
		if cfg.AssetDir != "" {
			baseDir = cfg.AssetDir
		}
		if cfg.AssetMaxUploadMB > 0 {
			maxUploadMB = cfg.AssetMaxUploadMB
		}
	}

	return &AssetStore{
		repo:               repo,
		baseDir:            baseDir,
		maxUploadSizeBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// StoreDataURL decodes a `data:image/...;base64,` payload, re-encodes
// it as WebP capped at 2048px, persists it, and returns the stored
// asset. A malformed or oversized payload is a validation error;
// failures in the encode or write path are upload errors.
func (s *AssetStore) StoreDataURL(ctx context.Context, ownerID uint, dataURL string) (*models.Asset, error) {
	if ownerID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}

	raw, declaredType, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if int64(len(raw)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(raw)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Unsupported image type")
	}
	if declaredType != "" && !isMatchingContentType(declaredType, detectedType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, models.NewValidationError("Invalid image data")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	normalized := resizeToFit(decoded, AssetMaxDimension, AssetMaxDimension)
	encoded, err := encodeWebP(normalized, AssetWebPQuality)
	if err != nil {
		return nil, models.NewUploadError(err)
	}

	hash := assetHash(ownerID, encoded)
	if existing, getErr := s.repo.GetByHash(ctx, hash); getErr != nil {
		return nil, models.NewInternalError(getErr)
	} else if existing != nil {
		return existing, nil
	}

	storagePath := hash + ".webp"
	if err := writeBytesToFile(filepath.Join(s.baseDir, storagePath), encoded); err != nil {
		return nil, models.NewUploadError(err)
	}

	bounds := normalized.Bounds()
	asset := &models.Asset{
		Hash:        hash,
		OwnerID:     ownerID,
		ContentType: "image/webp",
		SizeBytes:   int64(len(encoded)),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		StoragePath: storagePath,
		PublicURL:   s.PublicURL(hash),
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		_ = os.Remove(filepath.Join(s.baseDir, storagePath))
		return nil, models.NewInternalError(err)
	}

	return asset, nil
}

// PublicURL returns the serving path for a stored asset.
func (s *AssetStore) PublicURL(hash string) string {
	return fmt.Sprintf("/api/assets/%s.webp", hash)
}

// ResolveForServing maps a hash back to the file on disk.
func (s *AssetStore) ResolveForServing(ctx context.Context, hash string) (*models.Asset, string, error) {
	if !isValidAssetHash(hash) {
		return nil, "", models.NewValidationError("Invalid asset hash")
	}
	asset, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	if asset == nil {
		return nil, "", models.NewNotFoundError("Asset", hash)
	}
	fullPath := filepath.Join(s.baseDir, asset.StoragePath)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Asset", hash)
		}
		return nil, "", models.NewInternalError(err)
	}
	return asset, fullPath, nil
}

// IsDataURL reports whether a string is an inline base64 image rather
// than an already-stored URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

func decodeDataURL(dataURL string) (raw []byte, contentType string, err error) {
	if !IsDataURL(dataURL) {
		return nil, "", errors.New("expected a data:image/ URL")
	}
	rest := strings.TrimPrefix(dataURL, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, "", errors.New("malformed data URL")
	}
	meta, payload := rest[:sep], rest[sep+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("only base64 data URLs are supported")
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	raw, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.New("invalid base64 image payload")
	}
	if len(raw) == 0 {
		return nil, "", errors.New("empty image payload")
	}
	return raw, contentType, nil
}

// isValidAssetHash checks that the hash is strictly lowercase hex.
// This prevents path traversal via crafted hash parameters.
func isValidAssetHash(hash string) bool {
	if len(hash) == 0 || len(hash) > 128 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func assetHash(ownerID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", ownerID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
