// Package render provides visualization rendering for practice graphs.
//
// # Overview
//
// This package contains the rendering pipeline that transforms practice
// dependency graphs into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Graphviz node-link diagrams (in [dot] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := dot.RenderSVG(dotSrc)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [dot] subpackage renders the practice dependency graph as a directed
// diagram using Graphviz. Practices appear as boxes connected by arrows,
// with adopted practices highlighted.
//
//	dotSrc := dot.ToDOT(flat, dot.Options{Adopted: adopted})
//	svg, err := dot.RenderSVG(dotSrc)
//	pdf, err := render.ToPDF(svg)
//
// [dot]: github.com/bdfinst/interactive-cd/pkg/render/dot
package render
