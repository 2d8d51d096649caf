// Package kbregistry is the composition root for the knowledge-base
// registry pipeline.
//
// It connects the core domain (corpus entities and validation rules)
// with the infrastructure adapters (filesystem registry, release
// packager) behind a small functional-options facade.
//
// The registry is a curated content corpus: Markdown pattern guides,
// ADRs, behavioral instruction files, and YAML error dictionaries,
// consumed wholesale by downstream agents. This module implements the
// only logic the corpus needs: schema validation, quality audit,
// semantic version bumping, and release packaging, run in the fixed
// order Validate -> Bump -> Package.
//
// Usage:
//
//	svc, err := kbregistry.New("./registry",
//		kbregistry.WithMustExist(true),
//		kbregistry.WithLogger(logger),
//	)
//
//	report, err := svc.Validate(ctx)
package kbregistry
