package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	color_extractor "github.com/marekm4/color-extractor"
)

// ExtractPoster downloads a poster image and returns its raw bytes, the
// file extension derived from the content type and the dominant colours
// in hex form. The first colour doubles as the media theme colour when
// the backend didn't set one.
func ExtractPoster(posterURL string) ([]byte, string, []string, error) {
	client := NewHTTPClient()
	req, err := http.NewRequest("GET", posterURL, nil)
	if err != nil {
		return nil, "", nil, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, "", nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", nil, fmt.Errorf("poster fetch returned %d", res.StatusCode)
	}

	var buf bytes.Buffer
	tee := io.TeeReader(res.Body, &buf)

	body, err := io.ReadAll(tee)
	if err != nil {
		return nil, "", nil, err
	}

	extension := ""
	switch http.DetectContentType(body) {
	case "image/jpeg":
		extension = "jpeg"
	case "image/png":
		extension = "png"
	}

	var domColours []string
	if img, _, err := image.Decode(&buf); err == nil {
		for _, c := range color_extractor.ExtractColors(img) {
			domColours = append(domColours, colourToHexString(c))
		}
	}

	return body, extension, domColours, nil
}

func colourToHexString(c color.Color) string {
	r, g, b, a := c.RGBA()
	rgba := color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}
	return fmt.Sprintf("#%.2x%.2x%.2x", rgba.R, rgba.G, rgba.B)
}
