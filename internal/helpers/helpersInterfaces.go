package helpers

type Mapable interface {
	AsMap() map[string]any
}

type MapableError interface {
	error
	Mapable
}
