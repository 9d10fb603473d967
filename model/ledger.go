package model

// ChainSnapshot is a read-only copy of a chain together with its length, as handed out to
// peers and clients.
type ChainSnapshot struct {
	Chain  []Block `json:"chain"`
	Length int64   `json:"length"`
}
