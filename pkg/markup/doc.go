// Package markup serializes element trees to HTML.
//
// Both resolved VNode trees and live presentation trees convert to
// golang.org/x/net/html nodes, so rendering, escaping and void elements
// follow the HTML5 serialization algorithm. Function-valued properties are
// event handlers and never serialized.
package markup
