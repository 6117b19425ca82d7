package geodesy

// Projector bundles the transformers the pose math needs. It is built once and shared; it holds no
// mutable state.
type Projector struct {
	toGeocentric   Transformer
	fromGeocentric Transformer
	toMercator     Transformer
	fromMercator   Transformer
}

// NewProjector builds the WGS84 <-> geocentric and WGS84 <-> Web-Mercator transformers.
func NewProjector() (*Projector, error) {
	var (
		p   Projector
		err error
	)
	if p.toGeocentric, err = NewTransformer(WGS84, Geocentric); err != nil {
		return nil, err
	}
	if p.fromGeocentric, err = NewTransformer(Geocentric, WGS84); err != nil {
		return nil, err
	}
	if p.toMercator, err = NewTransformer(WGS84, WebMercator); err != nil {
		return nil, err
	}
	if p.fromMercator, err = NewTransformer(WebMercator, WGS84); err != nil {
		return nil, err
	}
	return &p, nil
}

// MustProjector is NewProjector for package-level initialization; it panics on error.
func MustProjector() *Projector {
	p, err := NewProjector()
	if err != nil {
		panic(err)
	}
	return p
}
