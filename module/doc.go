// Package module discovers modules declared in a flat configuration and
// derives the configuration each module sees.
//
// Within a namespace such as "modkit.module", three kinds of keys exist:
//
//	modkit.module.<id>.<order> = <factory ref>   declares module id
//	modkit.module.<id>.<key>   = <value>         private setting of id
//	anything else                                global setting
//
// Resolve returns declarations sorted by ascending order. Modules declared
// with the same order are reported as ties and keep no particular order among
// themselves. Scope returns, for one module, its private settings with the
// prefix removed plus every global setting except the enabled key.
//
//	p, _ := module.NewPattern("modkit.module")
//	r := module.NewResolver(p)
//	for _, d := range r.Resolve(view) {
//	    cfg := p.Scope(view, d.ID)
//	    ...
//	}
package module
