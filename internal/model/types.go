package model

// Asset is one entry of a case's asset catalog.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Chunk is a citation record returned alongside an answer.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Asset   string `json:"asset"`
	Page    int    `json:"page"`
}
