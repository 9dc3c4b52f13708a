// Package templates holds the HTML components of the local web shell.
//
// Components are written in components.templ; run `templ generate` after
// editing it.
package templates
