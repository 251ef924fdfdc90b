/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package resolver

// BuildVerificationClasspath assembles the layered resolver a
// verification job queries, in the order spec.md §4.1 mandates:
// plugin classes, then JDK classes, then host (IDE) classes, then
// transitive plugin dependencies, then user-supplied external jars.
//
// This ordering is a correctness requirement, not a preference: a
// dependency class must never shadow a host class, and the plugin being
// verified must never be shadowed by the JDK it runs on. dependencies
// and externalClasspath may be nil/empty; they are appended in that case
// as zero resolvers, leaving the ordering of the remaining layers intact.
//
// The teacher's Classloader chain (AppCL -> ExtensionCL -> BootstrapCL,
// each with a Parent name resolved by convention) expresses a similar
// fixed precedence; this function makes that precedence an explicit,
// data-driven composition instead of a parent-pointer chase.
func BuildVerificationClasspath(plugin, jdk, host Resolver, dependencies []Resolver, externalClasspath Resolver) *CacheResolver {
	children := make([]Resolver, 0, 4+len(dependencies))
	children = append(children, plugin, jdk, host)
	children = append(children, dependencies...)
	if externalClasspath != nil {
		children = append(children, externalClasspath)
	}
	return NewCacheResolver(NewUnionResolver(children...))
}
