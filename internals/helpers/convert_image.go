package helper

import (
	"bytes"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxProofDimension = 1600 // px, sisi terpanjang

// SaveImageAsWebP membaca file upload (png/jpg/webp), resize bila terlalu besar,
// encode ulang ke WebP, lalu simpan ke ./uploads/<folder>/.
// Mengembalikan path publik, mis. "/uploads/transfer-proofs/20250828-xxx.webp".
func SaveImageAsWebP(folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file gambar: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("file bukan gambar yang valid: %w", err)
	}

	// Resize proporsional kalau melebihi batas
	b := img.Bounds()
	if b.Dx() > maxProofDimension || b.Dy() > maxProofDimension {
		img = imaging.Fit(img, maxProofDimension, maxProofDimension, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return "", fmt.Errorf("gagal encode webp: %w", err)
	}

	dir := filepath.Join("uploads", folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("gagal membuat folder upload: %w", err)
	}

	filename := GenerateUniqueFilename(fileHeader.Filename)
	fullPath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("gagal menyimpan gambar: %w", err)
	}

	return "/uploads/" + folder + "/" + filename, nil
}

// ✅ Buat nama unik
func sanitizeFilename(filename string) string {
	// Hapus karakter selain huruf, angka, titik, dash, underscore
	re := regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	return re.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	base := sanitizeFilename(originalFilename)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return fmt.Sprintf("%s-%s-%s.webp", timestamp, uuid.New().String()[:8], name)
}

// DeleteUpload menghapus file hasil upload berdasarkan path publiknya.
func DeleteUpload(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	local := filepath.Join(".", filepath.FromSlash(publicPath))
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
