// Package assets provides the stylesheet and page band templates used to
// render reports as PDF.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the generator. A custom directory
// can override the stylesheet or a band template set while the rest
// keeps coming from the embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── header.html      # Header band, printed on every page
//	        └── footer.html      # Footer band with the page number
//
// Band templates are html/template sources executed with a BandData
// value. They must not load external resources: the PDF engine renders
// bands in isolation.
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
