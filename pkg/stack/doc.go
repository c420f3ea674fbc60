/*
Package stack loads stack definition metadata from disk.

A stack definition describes the software stack installed on a cluster (for
example HDP 2.6): which configuration types it ships and the authoritative
default value of every stack-defined property. Steward reads these during
upgrades to reset properties to release-appropriate defaults and to seed
newly introduced properties into existing clusters.

# Layout

	<stack dir>/
	  HDP/
	    2.6/
	      configuration/
	        cluster-env.yml
	        zeppelin-env.yml

Each configuration file is YAML of the form:

	properties:
	  stack_root: /usr/hdp
	  stack_tools: '{"stack_selector": ["hdp-select"]}'

The file name (minus extension) is the configuration type it defines;
FileNameToConfigType performs that mapping.

# Absence Semantics

A stack with no definition on disk is not an error: StackProperties returns
a nil slice, and upgrade logic treats that as "no stack properties
available" and skips the cluster.
*/
package stack
