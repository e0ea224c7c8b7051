// Package dispatch implements the MapDispatcher (per-event load-or-cache,
// overwrite/create-if-missing policy, store writes) and the ChildProjector
// adapter that lets one Dispatcher nest inside another within the same
// store transaction.
//
// A Dispatcher is constructed in two phases because its four OnCreate/
// OnUpdate/OnDelete/OnCustom methods are themselves the dispatch shims an
// eventmap.EventMap needs to be built:
//
//	d, err := dispatch.New(cfg)
//	b := eventmap.NewBuilder[*Widget, string]()
//	eventmap.Create(b, keyOf, handleCreated, shouldOverwrite)
//	d.SetEventMap(b.Build(d.Shims()))
package dispatch
