// Package rostertool implements the roster command namespace, which inspects and
// normalizes the roster file without contacting any remote platform.
package rostertool
