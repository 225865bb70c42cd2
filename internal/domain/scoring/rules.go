package scoring

import "strings"

// baselineRisk is returned when no contextual rule matches.
const baselineRisk = 3

// Rule raises contextual risk to at least Floor when Match holds for the
// lower-cased finding text.
type Rule struct {
	Name  string
	Floor int
	Match func(text string) bool
}

// riskRules is evaluated in order, but only the maximum floor matters so
// the order never changes the result.
var riskRules = []Rule{
	{Name: "public_endpoint", Floor: 8, Match: publicEndpoint},
	{Name: "kubernetes_dashboard", Floor: 9, Match: kubernetesDashboard},
	{Name: "tiller", Floor: 10, Match: tiller},
	{Name: "open_network", Floor: 9, Match: openNetwork},
	{Name: "public_load_balancer", Floor: 7, Match: publicLoadBalancer},
	{Name: "pod_security_policy_disabled", Floor: 7, Match: podSecurityPolicyDisabled},
	{Name: "pod_security_standards_missing", Floor: 7, Match: podSecurityStandardsMissing},
	{Name: "public_subnet", Floor: 7, Match: publicSubnet},
}

// Rules returns a copy of the contextual risk rule table.
func Rules() []Rule {
	out := make([]Rule, len(riskRules))
	copy(out, riskRules)
	return out
}

// ContextualRisk scores a finding from its text alone, in [3,10].
// path is accepted for rules that key on file location; none do yet.
func ContextualRisk(message, path string) int {
	text := strings.ToLower(message)

	risk := baselineRisk
	for _, r := range riskRules {
		if r.Match(text) {
			risk = max(risk, r.Floor)
		}
	}
	return risk
}

// MatchedRules returns the names of every rule matching message, in table order.
func MatchedRules(message string) []string {
	text := strings.ToLower(message)

	var names []string
	for _, r := range riskRules {
		if r.Match(text) {
			names = append(names, r.Name)
		}
	}
	return names
}

// ── Predicates ───────────────────────────────────────────────────────────────
// Each receives already lower-cased text.

func publicEndpoint(t string) bool {
	return containsAll(t, "endpoint", "public") || containsAll(t, "is_public_ip_enabled", "true")
}

func kubernetesDashboard(t string) bool {
	return containsAny(t, "kubernetes dashboard", "dashboard enabled")
}

func tiller(t string) bool {
	return containsAny(t, "tiller", "helm v2")
}

func openNetwork(t string) bool {
	return containsAny(t, "internet gateway", "0.0.0.0/0", "allow all", "all traffic")
}

func publicLoadBalancer(t string) bool {
	return containsAll(t, "loadbalancer", "public")
}

func podSecurityPolicyDisabled(t string) bool {
	return containsAll(t, "pod security policy", "disabled")
}

func podSecurityStandardsMissing(t string) bool {
	return strings.Contains(t, "pod security standards") && containsAny(t, "missing", "not enforced")
}

func publicSubnet(t string) bool {
	return strings.Contains(t, "public subnet") || containsAll(t, "subnet", "public")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
