// Package driven defines the secondary ports of crmbridge: interfaces the
// core services depend on, implemented by adapters (identity store, change
// feed, grant storage, CRM client, identity platform API, config).
package driven
