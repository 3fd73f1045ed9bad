// Package formats provides writers for mesh interchange formats.
package formats
