// Package normalisers provides document-to-text extraction.
//
// Each subpackage handles one family of file formats and implements
// driven.Normaliser. The Registry in this package selects a normaliser
// by file extension; a filename with no registered normaliser is an
// unsupported format.
package normalisers
