package sdlsurface

// Letterbox fits a texW x texH image into a winW x winH target, keeping the
// aspect ratio and centering it. It returns the destination rectangle.
func Letterbox(texW, texH, winW, winH int) (x, y, w, h int) {
	if texW <= 0 || texH <= 0 || winW <= 0 || winH <= 0 {
		return 0, 0, 0, 0
	}
	// Compare texW/texH with winW/winH without floating point
	if texW*winH > winW*texH {
		w = winW
		h = texH * winW / texW
	} else {
		h = winH
		w = texW * winH / texH
	}
	return (winW - w) / 2, (winH - h) / 2, w, h
}
