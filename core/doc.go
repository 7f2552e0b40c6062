// Package core contains the session credential contracts, the refresh
// coordinator, and the call pipeline that keeps outbound API calls attached to
// a valid access credential. Lower-level adapters (transport, storage) depend
// on this package; core must not depend on them.
package core
