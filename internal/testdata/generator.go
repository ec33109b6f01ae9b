// Package testdata builds sample case catalogs and citations for tests.
package testdata

import (
	"fmt"
	"math/rand"

	"github.com/jask/casedesk/internal/model"
)

// SampleCase is the case the client opens by default.
const SampleCase = "sample_case_001"

// SampleQuestion is the question the client pre-fills.
const SampleQuestion = "本案争议焦点为何？"

var sampleNames = []string{
	"deposition.mp4",
	"hearing_audio.wav",
	"contract.pdf",
	"police_report.docx",
	"bodycam.MOV",
	"voicemail.m4a",
	"exhibit_list",
}

// Catalog returns the sample catalog for caseID. URLs embed the case so
// catalogs of different cases never compare equal.
func Catalog(caseID string) []model.Asset {
	out := make([]model.Asset, 0, len(sampleNames))
	for _, n := range sampleNames {
		out = append(out, model.Asset{Name: n, URL: fmt.Sprintf("http://files.local/%s/%s", caseID, n)})
	}
	return out
}

// Citations returns n citations drawn from the catalog of caseID, seeded so
// the same seed gives the same sequence.
func Citations(caseID string, n int, seed int64) []model.Chunk {
	r := rand.New(rand.NewSource(seed))
	out := make([]model.Chunk, 0, n)
	for i := 0; i < n; i++ {
		name := sampleNames[r.Intn(len(sampleNames))]
		out = append(out, model.Chunk{
			ChunkID: fmt.Sprintf("%s-c%d", caseID, i+1),
			Asset:   name,
			Page:    r.Intn(40) + 1,
		})
	}
	return out
}
