/*
Package ports defines the interfaces between the markdown engine and its
adapters.

# Key Interfaces

  - RenderCache: stores rendered HTML (memory, Redis, SQLite).
  - Renderer: the engine as seen by transports (HTTP, MCP).

RunRenderCacheContract is a shared test suite every RenderCache adapter runs.
*/
package ports
