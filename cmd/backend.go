/*
Copyright © 2026 The oligocraft authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/internal/io/archio"
	"github.com/attilauslu/oligocraft/internal/io/benchio"
	"github.com/attilauslu/oligocraft/internal/io/blobio"
	"github.com/attilauslu/oligocraft/internal/io/kvio"
	"github.com/attilauslu/oligocraft/internal/io/localio"
	"github.com/attilauslu/oligocraft/internal/io/memio"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/gnames/gnfmt"
)

// newRegistry creates a registry for the configured backend. A seed file is
// imported into the local backend before use. The returned function
// releases resources of the backend.
func newRegistry(
	ctx context.Context,
	cfg config.Config,
	seed string,
) (registry.Registry, func(), error) {
	nop := func() {}
	switch cfg.Backend {
	case config.BackendBenchling:
		reg, err := benchio.New(cfg.Benchling)
		return reg, nop, err
	case config.BackendMemory:
		return memio.New(), nop, nil
	case config.BackendLocal:
		return newLocal(ctx, cfg, seed)
	default:
		return nil, nop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newLocal(
	ctx context.Context,
	cfg config.Config,
	seed string,
) (registry.Registry, func(), error) {
	nop := func() {}
	store, err := kvio.New(cfg.KVDir)
	if err != nil {
		return nil, nop, err
	}
	if err = store.Open(); err != nil {
		return nil, nop, err
	}
	closer := func() {
		if err := store.Close(); err != nil {
			slog.Error("Cannot close key-value store", "error", err)
		}
	}

	blobs, err := blobio.New(ctx, cfg.Blob)
	if err != nil {
		closer()
		return nil, nop, err
	}

	res := localio.New(store, blobs)
	if seed == "" {
		return res, closer, nil
	}

	s, err := localio.ReadSeed(seed)
	if err != nil {
		closer()
		return nil, nop, err
	}
	ids, err := res.Seed(ctx, s)
	if err != nil {
		closer()
		return nil, nop, err
	}
	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(ids)
	if err != nil {
		closer()
		return nil, nop, err
	}
	fmt.Fprintln(os.Stderr, string(out))
	return res, closer, nil
}

// newArchiver returns nil when archiving is disabled.
func newArchiver(ctx context.Context, cfg config.Config) (archive.Archiver, error) {
	if !cfg.Archive {
		return nil, nil
	}
	return archio.New(ctx, cfg.PgDB)
}
