// Package property forwards string properties to native property bags.
//
// Every Speech SDK object carries a bag of string properties keyed either
// by a speechsdk.PropertyID or by an arbitrary name. Properties holds no
// local copy: each get and put is a native call. Absent keys read as "".
//
// A bag is either standalone (Create, New) or fetched from a parent object
// (FromParent). Object pairs a parent handle with its bag and releases both.
package property
