package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/domain"
	"cellseed.ai/internal/sim/model"
	"cellseed.ai/internal/sim/population"
)

const Version = 1

type Header struct {
	Version   int    `json:"version"`
	RunID     string `json:"run_id"`
	Agents    int    `json:"agents"`
	CreatedAt int64  `json:"created_at"`
}

// PopulationV1 is the state of a run right after setup.
type PopulationV1 struct {
	Header Header `json:"header"`

	Seed          int64        `json:"seed"`
	Bounds        BoundsV1     `json:"bounds"`
	CatalogDigest string       `json:"catalog_digest"`
	Schema        []VariableV1 `json:"schema"`
	Templates     []TemplateV1 `json:"templates"`
	Agents        []AgentV1    `json:"agents"`
}

type BoundsV1 struct {
	Min  [3]float64 `json:"min"`
	Max  [3]float64 `json:"max"`
	TwoD bool       `json:"two_d"`
}

type VariableV1 struct {
	Name   string `json:"name"`
	Units  string `json:"units,omitempty"`
	Vector bool   `json:"vector,omitempty"`
}

type TemplateV1 struct {
	Type int    `json:"type"`
	Name string `json:"name"`
}

type AgentV1 struct {
	ID     int         `json:"id"`
	Type   int         `json:"type"`
	Pos    [3]float64  `json:"pos"`
	Custom [][]float64 `json:"custom"`
	Dead   bool        `json:"dead,omitempty"`
	Phase  int         `json:"phase"`
}

func vec(v model.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func FromPopulation(runID string, seed int64, b domain.Bounds, reg *catalogs.Registry, pop *population.Population) PopulationV1 {
	snap := PopulationV1{
		Header: Header{
			Version:   Version,
			RunID:     runID,
			Agents:    pop.Len(),
			CreatedAt: time.Now().UTC().Unix(),
		},
		Seed:          seed,
		Bounds:        BoundsV1{Min: vec(b.Min), Max: vec(b.Max), TwoD: b.TwoD},
		CatalogDigest: reg.Digest,
	}
	for _, v := range reg.Schema().Variables() {
		snap.Schema = append(snap.Schema, VariableV1{Name: v.Name, Units: v.Units, Vector: v.Vector})
	}
	for _, t := range reg.Templates() {
		snap.Templates = append(snap.Templates, TemplateV1{Type: t.Type, Name: t.Name})
	}
	for _, a := range pop.All() {
		snap.Agents = append(snap.Agents, AgentV1{
			ID:     a.ID,
			Type:   a.TypeCode(),
			Pos:    vec(a.Pos),
			Custom: a.Custom.Values(),
			Dead:   a.Dead,
			Phase:  int(a.Phase),
		})
	}
	return snap
}

// Restore rebuilds the population against reg. The registry schema must list
// the same variables in the same order as the snapshot.
func (s PopulationV1) Restore(reg *catalogs.Registry) (*population.Population, error) {
	vars := reg.Schema().Variables()
	if len(vars) != len(s.Schema) {
		return nil, fmt.Errorf("snapshot schema has %d variables, registry has %d", len(s.Schema), len(vars))
	}
	for i, v := range s.Schema {
		if vars[i].Name != v.Name || vars[i].Vector != v.Vector {
			return nil, fmt.Errorf("snapshot schema slot %d is %q, registry has %q", i, v.Name, vars[i].Name)
		}
	}

	pop := population.New()
	for _, av := range s.Agents {
		t, ok := reg.Resolve(av.Type)
		if !ok {
			return nil, fmt.Errorf("agent %d: unknown type %d", av.ID, av.Type)
		}
		cd, err := model.RestoreCustomData(reg.Schema(), av.Custom)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", av.ID, err)
		}
		a := &model.Agent{
			ID:       av.ID,
			Pos:      model.Vec3{X: av.Pos[0], Y: av.Pos[1], Z: av.Pos[2]},
			Template: t,
			Custom:   cd,
			Dead:     av.Dead,
			Phase:    model.PhaseCode(av.Phase),
		}
		if err := pop.Restore(a); err != nil {
			return nil, err
		}
	}
	return pop, nil
}

func WriteSnapshot(path string, snap PopulationV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadHeader decodes only the JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (PopulationV1, error) {
	var snap PopulationV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The gob body repeats the header.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
