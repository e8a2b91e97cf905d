// Package cloud talks to the vendor cloud directory: account login and the
// list of devices registered to the account.
package cloud
