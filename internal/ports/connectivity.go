package ports

// Connectivity — состояние связи с апстримом.
type Connectivity interface {
	Online() bool
	// BecameOnline — событие на каждый переход offline → online.
	BecameOnline() <-chan struct{}
}
