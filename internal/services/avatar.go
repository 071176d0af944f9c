package services

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/types"
)

// AvatarService renders an initials avatar for a new user and stores it in
// the local media directory. Best effort: registration continues without an
// avatar when rendering fails.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, user *types.User) error
}

const (
	avatarRenderSize = 512
	avatarFinalSize  = 256
	avatarFontSize   = 206
)

var avatarPalette = []color.NRGBA{
	{R: 0x5B, G: 0x8D, B: 0xEF, A: 0xFF},
	{R: 0xEF, G: 0x76, B: 0x5B, A: 0xFF},
	{R: 0x4C, G: 0xAF, B: 0x7D, A: 0xFF},
	{R: 0x9B, G: 0x6B, B: 0xD6, A: 0xFF},
	{R: 0xE8, G: 0xA8, B: 0x3C, A: 0xFF},
	{R: 0x46, G: 0xB5, B: 0xB1, A: 0xFF},
	{R: 0xD6, G: 0x5B, B: 0x8F, A: 0xFF},
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, mediaDir, fontPath string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("avatar font path is empty")
	}
	face, err := loadFontFace(fontPath, avatarFontSize)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create avatar media dir: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	initials := userInitials(user)
	bg := avatarPalette[paletteIndex(user.ID.String())]

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	// Render oversized, then downscale for smoother glyph edges.
	scaled := image.NewRGBA(image.Rect(0, 0, avatarFinalSize, avatarFinalSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	mediaKey := filepath.Join("avatars", user.ID.String()+".png")
	fullPath := filepath.Join(as.mediaDir, mediaKey)
	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, scaled); err != nil {
		return fmt.Errorf("encode avatar png: %w", err)
	}

	user.AvatarMediaKey = mediaKey
	user.AvatarURL = "/media/" + filepath.ToSlash(mediaKey)
	as.log.Debug("Generated user avatar", "user_id", user.ID, "media_key", mediaKey)
	return nil
}

func userInitials(user *types.User) string {
	first := firstLetter(user.FirstName)
	last := firstLetter(user.LastName)
	initials := first + last
	if initials == "" {
		initials = firstLetter(user.Email)
	}
	if initials == "" {
		initials = "?"
	}
	return strings.ToUpper(initials)
}

func firstLetter(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return string(r)
		}
	}
	return ""
}

// paletteIndex derives a stable color choice from the user id so regenerated
// avatars keep their color.
func paletteIndex(seed string) int {
	sum := 0
	for _, b := range []byte(seed) {
		sum += int(b)
	}
	return sum % len(avatarPalette)
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
