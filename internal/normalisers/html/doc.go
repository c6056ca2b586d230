// Package html provides a Normaliser implementation for HTML documents.
// It walks the token stream, drops script, style and noscript content,
// and joins the remaining text nodes line by line before collapsing
// redundant whitespace.
package html
