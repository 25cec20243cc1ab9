// Package middleware groups the Fiber middleware mounted in front of the
// compare API.
//
//   - auth: rejects requests without the configured X-API-Key. An empty key
//     disables the check; the swagger UI is mounted before it and stays public.
//   - rayid: tags every request with an X-Ray-ID, reusing one sent by the
//     caller, so log lines of a single comparison run can be correlated.
package middleware
