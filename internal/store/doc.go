// Package store defines interfaces for data persistence operations and the
// session repository built on top of them. These interfaces abstract the
// underlying storage mechanism from the application's core logic, allowing
// business rules to remain independent of specific persistence details.
package store
