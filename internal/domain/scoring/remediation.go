package scoring

import "strings"

// GenericRemediation is returned when no advice category matches.
const GenericRemediation = "Apply least privilege: reduce exposure and enforce access control."

type advice struct {
	match func(text string) bool
	fixes []string
}

// adviceTable is applied in order; every matching entry appends its fixes.
// Public subnets and missing pod security standards raise risk but have no
// dedicated advice.
var adviceTable = []advice{
	{
		match: kubernetesDashboard,
		fixes: []string{
			"Set `is_kubernetes_dashboard_enabled = false` in `oci_containerengine_cluster.options.add_ons`.",
			"Manage the cluster with external tooling (kubectl, Lens) restricted by RBAC.",
		},
	},
	{
		match: tiller,
		fixes: []string{
			"Set `is_tiller_enabled = false` and drop Helm v2.",
			"Move to Helm 3 without Tiller and enforce RBAC.",
		},
	},
	{
		match: publicEndpoint,
		fixes: []string{
			"Consider `endpoint_config.is_public_ip_enabled = false` (private endpoint) with access through Bastion or VCN peering.",
			"If the endpoint must stay public: restrict NSGs/Security Lists to trusted CIDRs, add WAF/IPS, enforce TLS and SSO.",
		},
	},
	{
		match: openNetwork,
		fixes: []string{
			"Narrow Security Lists/NSGs to specific ports and trusted sources (least privilege).",
			"Review route tables and block unnecessary traffic to and from the internet.",
		},
	},
	{
		match: publicLoadBalancer,
		fixes: []string{
			"Put a WAF/CDN in front of the load balancer, enforce TLS/mTLS and restrict sources with a CIDR allowlist.",
			"Consider a private load balancer behind a public WAF/CDN front door.",
		},
	},
	{
		match: podSecurityPolicyDisabled,
		fixes: []string{
			"Enforce Pod Security Standards (baseline/restricted) or Gatekeeper/OPA policies.",
			"Use `runAsNonRoot`, `readOnlyRootFilesystem` and `seccompProfile`.",
		},
	},
}

// Remediation returns suggested fixes for a finding message. The result is
// never empty and keeps duplicates across categories.
func Remediation(message string) []string {
	text := strings.ToLower(message)

	var fixes []string
	for _, a := range adviceTable {
		if a.match(text) {
			fixes = append(fixes, a.fixes...)
		}
	}
	if len(fixes) == 0 {
		return []string{GenericRemediation}
	}
	return fixes
}
