/*
Package kerberos models Kerberos descriptors and principal strings.

A Kerberos descriptor is a structured document describing the Kerberos
principal and configuration requirements of every service on a cluster. It
is persisted as an artifact blob (a generic key-value map) and round-trips
through this package's Descriptor model:

	descriptor, err := kerberos.FromMap(artifact.Data)
	...
	artifact.Data = descriptor.ToMap()

The model only understands the parts upgrades mutate: named service nodes
and their per-type configuration property maps. Everything else in the
document (identities, components, auth-to-local properties) is carried
through ToMap verbatim, so a descriptor that is read and written back is not
damaged by fields the model does not parse.

Absent nodes are nil rather than errors, and every accessor is nil-safe, so
lookup chains can be written without existence checks:

	props := descriptor.Service("SPARK").Configuration("livy-conf").Properties()
	// props is nil when any level is missing

# Principals

DeconstructPrincipal splits a principal of the form name[/instance][@REALM]
into its components. A default realm is supplied by the caller for
principals that omit one; it does not affect the extracted principal name.
*/
package kerberos
