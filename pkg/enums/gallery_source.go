package enums

// GallerySource names the record type a gallery projection row derives from.
type GallerySource string

const (
	GallerySourceCustomOrder GallerySource = "custom_order"
	GallerySourceProduct     GallerySource = "product"
)

var validGallerySources = []GallerySource{
	GallerySourceCustomOrder,
	GallerySourceProduct,
}

// String implements fmt.Stringer.
func (g GallerySource) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GallerySource.
func (g GallerySource) IsValid() bool {
	for _, candidate := range validGallerySources {
		if candidate == g {
			return true
		}
	}
	return false
}
