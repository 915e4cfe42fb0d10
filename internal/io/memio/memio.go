// Package memio keeps a registry in memory. It is used by tests and by
// dry runs that do not need to persist anything.
package memio

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Memory is an in-memory registry.
type Memory struct {
	mu  sync.Mutex
	seq int

	entities  map[model.Target][]registry.Entity
	files     map[string]registry.FileEntity
	blobs     map[string][]byte
	blobNames map[string]string
	plates    map[string]registry.Plate
	entries   []registry.Entry
	tables    map[string][]model.AssayResult
	transfers []registry.Transfer

	bulkCalls int
	created   []model.EntityCreate
}

var _ registry.Registry = (*Memory)(nil)

// New creates an empty registry.
func New() *Memory {
	return &Memory{
		entities:  make(map[model.Target][]registry.Entity),
		files:     make(map[string]registry.FileEntity),
		blobs:     make(map[string][]byte),
		blobNames: make(map[string]string),
		plates:    make(map[string]registry.Plate),
		tables:    make(map[string][]model.AssayResult),
	}
}

func (m *Memory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s_%04d", prefix, m.seq)
}

func idPrefix(k model.Kind) string {
	if k == model.CustomEntity {
		return "bfi"
	}
	return "seq"
}

func notFound(what, id string) error {
	return errs.New(errs.ExternalServiceError, fmt.Sprintf("%s %s not found", what, id))
}

// AddEntity seeds an existing entity and returns its ID.
func (m *Memory) AddEntity(t model.Target, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := registry.Entity{ID: m.nextID(idPrefix(t.Kind)), Name: name}
	m.entities[t] = append(m.entities[t], e)
	return e.ID
}

// AddFile seeds a file entity with a CSV blob and returns the entity ID.
func (m *Memory) AddFile(name, fileName string, content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	blobID := m.nextID("blob")
	m.blobs[blobID] = content
	m.blobNames[blobID] = fileName
	id := m.nextID("bfi")
	m.files[id] = registry.FileEntity{
		ID: id, Name: name, BlobID: blobID, FileName: fileName,
	}
	return id
}

// AddPlate seeds a plate with empty wells and returns its ID.
func (m *Memory) AddPlate(name string, wells ...string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := registry.Plate{
		ID:    m.nextID("plt"),
		Name:  name,
		Wells: make(map[string]registry.Well, len(wells)),
	}
	for _, w := range wells {
		p.Wells[w] = registry.Well{
			ID:      m.nextID("con"),
			Barcode: p.Name + "-" + w,
			Name:    p.Name + " " + w,
		}
	}
	m.plates[p.ID] = p
	return p.ID
}

// AddEntry seeds a notebook entry with one results table of a schema and
// returns the table ID.
func (m *Memory) AddEntry(name, assaySchemaID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	tableID := m.nextID("tbl")
	e := registry.Entry{
		ID:   m.nextID("etr"),
		Name: name,
		Days: []registry.Day{{Notes: []registry.Note{
			{Type: "text"},
			{Type: registry.ResultsTable, APIID: tableID, AssaySchemaID: assaySchemaID},
		}}},
	}
	m.entries = append(m.entries, e)
	return tableID
}

// BulkCalls returns the number of bulk creation requests.
func (m *Memory) BulkCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bulkCalls
}

// Created returns every creation request received so far.
func (m *Memory) Created() []model.EntityCreate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.EntityCreate(nil), m.created...)
}

// Transfers returns every transfer received so far.
func (m *Memory) Transfers() []registry.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]registry.Transfer(nil), m.transfers...)
}

// Results returns assay results of a table.
func (m *Memory) Results(tableID string) []model.AssayResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[tableID]
}

// Blob returns content and name of a blob.
func (m *Memory) Blob(id string) ([]byte, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blobs[id], m.blobNames[id]
}

// FileEntity implements registry.Registry.
func (m *Memory) FileEntity(_ context.Context, id string) (registry.FileEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.files[id]
	if !ok {
		return res, notFound("entity", id)
	}
	return res, nil
}

// DownloadBlob implements registry.Registry.
func (m *Memory) DownloadBlob(_ context.Context, blobID, path string) error {
	m.mu.Lock()
	data, ok := m.blobs[blobID]
	m.mu.Unlock()
	if !ok {
		return notFound("blob", blobID)
	}
	return os.WriteFile(path, data, 0644)
}

// ListEntities implements registry.Registry.
func (m *Memory) ListEntities(_ context.Context, t model.Target) ([]registry.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]registry.Entity(nil), m.entities[t]...), nil
}

type task struct {
	id   string
	ents []registry.Entity
}

func (t task) ID() string {
	return t.id
}

func (t task) Wait(ctx context.Context) ([]registry.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.ents, nil
}

// BulkCreate implements registry.Registry.
func (m *Memory) BulkCreate(
	_ context.Context,
	kind model.Kind,
	payloads []model.EntityCreate,
) (registry.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkCalls++
	res := task{id: m.nextID("task")}
	for _, p := range payloads {
		if p.Kind != kind {
			return nil, errs.New(errs.ExternalServiceError,
				fmt.Sprintf("entity %s is %s, not %s", p.Name, p.Kind, kind))
		}
		res.ents = append(res.ents, m.create(p))
	}
	return res, nil
}

func (m *Memory) create(p model.EntityCreate) registry.Entity {
	t := model.Target{Kind: p.Kind, FolderID: p.FolderID, SchemaID: p.SchemaID}
	e := registry.Entity{ID: m.nextID(idPrefix(p.Kind)), Name: p.Name}
	m.entities[t] = append(m.entities[t], e)
	m.created = append(m.created, p)
	return e
}

// Plate implements registry.Registry.
func (m *Memory) Plate(_ context.Context, id string) (registry.Plate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.plates[id]
	if !ok {
		return res, notFound("plate", id)
	}
	return res, nil
}

// TransferIntoContainers implements registry.Registry.
func (m *Memory) TransferIntoContainers(_ context.Context, ts []registry.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, ts...)
	return nil
}

// ListEntries implements registry.Registry.
func (m *Memory) ListEntries(_ context.Context, name string) ([]registry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []registry.Entry
	for _, e := range m.entries {
		if e.Name == name {
			res = append(res, registry.Entry{ID: e.ID, Name: e.Name})
		}
	}
	return res, nil
}

// Entry implements registry.Registry.
func (m *Memory) Entry(_ context.Context, id string) (registry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return registry.Entry{}, notFound("entry", id)
}

// BulkCreateAssayResults implements registry.Registry.
func (m *Memory) BulkCreateAssayResults(
	_ context.Context,
	rs []model.AssayResult,
	tableID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[tableID] = append(m.tables[tableID], rs...)
	return nil
}

// CreateBlob implements registry.Registry.
func (m *Memory) CreateBlob(_ context.Context, path, name, _ string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID("blob")
	m.blobs[id] = data
	m.blobNames[id] = name
	return id, nil
}

// CreateEntity implements registry.Registry. Entities with a CSV field
// become file entities.
func (m *Memory) CreateEntity(_ context.Context, p model.Payload) (registry.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec := p.Create()
	e := m.create(ec)
	if blobID, ok := ec.Fields["CSV"].(string); ok {
		m.files[e.ID] = registry.FileEntity{
			ID: e.ID, Name: e.Name, BlobID: blobID, FileName: m.blobNames[blobID],
		}
	}
	return e, nil
}
