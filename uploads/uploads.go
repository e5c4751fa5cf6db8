package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxFileSize = 5 << 20 // 5MB

// SVG is excluded on purpose: the files are served from the same origin
// and SVG can carry scripts.
var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

type UploadModule struct {
	dir       string
	urlPrefix string
}

func NewUploadModule() *UploadModule {
	return &UploadModule{
		dir:       filepath.Join("public", "uploads"),
		urlPrefix: "/uploads",
	}
}

func (u *UploadModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/upload", u.upload)
	router.Static(u.urlPrefix, u.dir)
}

func (u *UploadModule) upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 5MB)"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isImageExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be an image"})
		return
	}

	suffix, err := randomSuffix()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), suffix, ext)

	if err := os.MkdirAll(u.dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxFileSize)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": u.urlPrefix + "/" + name})
}

func isImageExt(ext string) bool {
	for _, valid := range imageExts {
		if ext == valid {
			return true
		}
	}
	return false
}

func randomSuffix() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
