package idcard

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestEncodeBarcode(t *testing.T) {
	raster, err := EncodeBarcode("1234")
	if err != nil {
		t.Fatalf("EncodeBarcode: %v", err)
	}
	if len(raster) == 0 {
		t.Fatal("empty raster")
	}

	img, err := png.Decode(bytes.NewReader(raster))
	if err != nil {
		t.Fatalf("decode raster: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 {
		t.Fatal("raster has zero width")
	}
	// Bars plus the human-readable text strip.
	wantHeight := barHeight*barModuleScale + textStripPx
	if bounds.Dy() != wantHeight {
		t.Fatalf("raster height = %d, want %d", bounds.Dy(), wantHeight)
	}
}

func TestEncodeBarcodeInvalidPayload(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{name: "empty payload", payload: ""},
		{name: "characters outside symbology", payload: "社員番号"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeBarcode(tc.payload)
			if !errors.Is(err, ErrEncodingFailed) {
				t.Fatalf("EncodeBarcode(%q) error = %v, want ErrEncodingFailed", tc.payload, err)
			}
		})
	}
}
