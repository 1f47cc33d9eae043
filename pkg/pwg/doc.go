// Package pwg implements an encoder and a decoder for the PWG raster
// format (PWG 5102.4), the print-ready image stream accepted by IPP
// Everywhere printers.
//
// A stream is the four byte sync word "RaS2" followed, for every page,
// by a 1796 byte PageHeader and the page's lines packed with a PackBits
// variant. Writer produces whole streams from pages that implement
// Renderer; Encoder and Decompress work on the packed lines alone.
package pwg
