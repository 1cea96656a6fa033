// Package catalog holds the read-only node catalog used to resolve names in
// automation summaries.
//
// A catalog is a set of nodes. Each node owns devices, and each device owns
// params. Keys are machine names used for lookups; display names are what
// users see.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                         Catalog                              │
//	│                                                              │
//	│  ┌────────────────┐   ┌────────────────┐   ┌──────────────┐  │
//	│  │    Registry    │──▶│   Repository   │   │  Validation  │  │
//	│  │ (registry.go)  │   │(repository.go) │   │(validation.go│  │
//	│  │ • cache        │   │ • SQLite nodes │   │ • unique keys│  │
//	│  │ • Snapshot()   │   │ • JSON devices │   │ • data types │  │
//	│  └────────────────┘   └────────────────┘   └──────────────┘  │
//	│          │                                                   │
//	│          ▼                                                   │
//	│  ┌────────────────┐                                          │
//	│  │    Catalog     │  immutable snapshot handed to the        │
//	│  │  (catalog.go)  │  automation description engine           │
//	│  └────────────────┘                                          │
//	└──────────────────────────────────────────────────────────────┘
//
// # Usage
//
//	repo := catalog.NewSQLiteRepository(db.DB)
//	registry := catalog.NewRegistry(repo)
//	registry.SetLogger(log)
//
//	if err := registry.RefreshCache(ctx); err != nil {
//	    return err
//	}
//
//	node, err := catalog.ParseNodeConfig(payload)
//	if err != nil {
//	    return err
//	}
//	if err := registry.SaveNode(ctx, node); err != nil {
//	    return err
//	}
//
//	snap := registry.Snapshot()
//	if n, ok := snap.Node("N1"); ok {
//	    if d, ok := n.Device("sw"); ok {
//	        fmt.Println(d.Label())
//	    }
//	}
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. A *Catalog is never
// modified after New returns, so it can be shared freely between
// goroutines.
package catalog
