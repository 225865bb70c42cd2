package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemediation_GenericWhenNoMatch(t *testing.T) {
	fixes := Remediation("minor logging misconfiguration")
	assert.Equal(t, []string{GenericRemediation}, fixes)
}

func TestRemediation_NeverEmpty(t *testing.T) {
	for _, msg := range []string{"", "x", "public subnet", "pod security standards missing", "tiller"} {
		assert.NotEmpty(t, Remediation(msg), "message %q", msg)
	}
}

func TestRemediation_SingleCategory(t *testing.T) {
	fixes := Remediation("Tiller is enabled")
	assert.Len(t, fixes, 2)
	assert.Contains(t, fixes[0], "is_tiller_enabled")
}

func TestRemediation_CategoryOrder(t *testing.T) {
	// endpoint is listed before dashboard in the message, but dashboard
	// advice comes first in the table.
	fixes := Remediation("public endpoint with kubernetes dashboard")
	assert.Len(t, fixes, 4)
	assert.Contains(t, fixes[0], "is_kubernetes_dashboard_enabled")
	assert.Contains(t, fixes[2], "is_public_ip_enabled")
}

func TestRemediation_RiskOnlyRulesFallBackToGeneric(t *testing.T) {
	assert.Equal(t, []string{GenericRemediation}, Remediation("pod security standards not enforced"))
}

func TestRemediation_AllCategories(t *testing.T) {
	msg := "kubernetes dashboard, tiller, public endpoint, 0.0.0.0/0, loadbalancer, pod security policy disabled"
	assert.Len(t, Remediation(msg), 12)
}

func TestRemediation_Deterministic(t *testing.T) {
	msg := "public LoadBalancer with allow all"
	assert.Equal(t, Remediation(msg), Remediation(msg))
}
