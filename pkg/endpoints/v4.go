package endpoints

// V4 returns the built-in Cloudflare v4 endpoint table. Parents are always
// declared before their children.
func V4() []Spec {
	out := make([]Spec, len(v4))
	copy(out, v4)
	return out
}

var v4 = []Spec{
	New(ReadOnly, "ips"),
	New(Authenticated, "graphql"),
	New(CertAuth, "certificates"),
	New(Authenticated, "memberships"),

	New(Authenticated, "user"),
	New(Authenticated, "user/audit_logs"),
	New(None, "user/billing"),
	New(Authenticated, "user/billing/history"),
	New(Authenticated, "user/billing/profile"),
	New(None, "user/firewall"),
	New(None, "user/firewall/access_rules"),
	New(Authenticated, "user/firewall/access_rules/rules"),
	New(Authenticated, "user/invites"),
	New(None, "user/load_balancers"),
	New(Authenticated, "user/load_balancers/monitors"),
	New(Authenticated, "user/load_balancers/pools"),
	New(Authenticated, "user/load_balancers/pools", "health"),
	New(Authenticated, "user/organizations"),
	New(Authenticated, "user/subscriptions"),
	New(Authenticated, "user/tokens"),
	New(Authenticated, "user/tokens/permission_groups"),
	New(Authenticated, "user/tokens/verify"),
	New(Authenticated, "user/tokens", "value"),

	New(Authenticated, "zones"),
	New(Authenticated, "zones", "activation_check"),
	New(None, "zones", "analytics"),
	New(Authenticated, "zones", "analytics/colos"),
	New(Authenticated, "zones", "analytics/dashboard"),
	New(Authenticated, "zones", "available_plans"),
	New(Authenticated, "zones", "available_rate_plans"),
	New(None, "zones", "content-upload-scan"),
	New(Authenticated, "zones", "content-upload-scan/disable"),
	New(Authenticated, "zones", "content-upload-scan/enable"),
	New(Authenticated, "zones", "content-upload-scan/payloads"),
	New(Authenticated, "zones", "content-upload-scan/settings"),
	New(Authenticated, "zones", "custom_certificates"),
	New(Authenticated, "zones", "custom_certificates/prioritize"),
	New(Authenticated, "zones", "custom_hostnames"),
	New(Authenticated, "zones", "custom_hostnames/fallback_origin"),
	New(Authenticated, "zones", "dns_records"),
	New(AuthenticatedRaw, "zones", "dns_records/export"),
	New(Authenticated, "zones", "dns_records/import"),
	New(Authenticated, "zones", "dns_records/scan"),
	New(Authenticated, "zones", "dnssec"),
	New(None, "zones", "firewall"),
	New(None, "zones", "firewall/access_rules"),
	New(Authenticated, "zones", "firewall/access_rules/rules"),
	New(Authenticated, "zones", "firewall/rules"),
	New(None, "zones", "firewall/waf"),
	New(Authenticated, "zones", "firewall/waf/packages"),
	New(Authenticated, "zones", "firewall/waf/packages", "groups"),
	New(Authenticated, "zones", "firewall/waf/packages", "rules"),
	New(Authenticated, "zones", "hold"),
	New(Authenticated, "zones", "keyless_certificates"),
	New(Authenticated, "zones", "load_balancers"),
	New(None, "zones", "logpush"),
	New(Authenticated, "zones", "logpush/jobs"),
	New(None, "zones", "logs"),
	New(Authenticated, "zones", "logs/control"),
	New(Authenticated, "zones", "logs/rayids"),
	New(Authenticated, "zones", "logs/received"),
	New(Authenticated, "zones", "logs/received/fields"),
	New(Authenticated, "zones", "origin_tls_client_auth"),
	New(Authenticated, "zones", "origin_tls_client_auth/hostnames"),
	New(Authenticated, "zones", "page_shield"),
	New(Authenticated, "zones", "pagerules"),
	New(Authenticated, "zones", "pagerules/settings"),
	New(Authenticated, "zones", "purge_cache"),
	New(Authenticated, "zones", "rate_limits"),
	New(Authenticated, "zones", "rulesets"),
	New(None, "zones", "rulesets/phases"),
	New(Authenticated, "zones", "rulesets/phases", "entrypoint"),
	New(Authenticated, "zones", "rulesets", "versions"),
	New(Authenticated, "zones", "settings"),
	New(Authenticated, "zones", "settings/0rtt"),
	New(Authenticated, "zones", "settings/always_use_https"),
	New(Authenticated, "zones", "settings/min_tls_version"),
	New(Authenticated, "zones", "settings/ssl"),
	New(None, "zones", "ssl"),
	New(Authenticated, "zones", "ssl/certificate_packs"),
	New(Authenticated, "zones", "ssl/verification"),
	New(Authenticated, "zones", "subscription"),
	New(None, "zones", "workers"),
	New(Authenticated, "zones", "workers/routes"),

	New(Authenticated, "accounts"),
	New(Authenticated, "accounts", "audit_logs"),
	New(None, "accounts", "billing"),
	New(Authenticated, "accounts", "billing/profile"),
	New(None, "accounts", "d1"),
	New(Authenticated, "accounts", "d1/database"),
	New(Authenticated, "accounts", "d1/database", "query"),
	New(None, "accounts", "images"),
	New(Authenticated, "accounts", "images/v1"),
	New(AuthenticatedRaw, "accounts", "images/v1", "blob"),
	New(Authenticated, "accounts", "images/v1/variants"),
	New(Authenticated, "accounts", "images/v2"),
	New(None, "accounts", "intel"),
	New(Authenticated, "accounts", "intel/domain"),
	New(None, "accounts", "load_balancers"),
	New(Authenticated, "accounts", "load_balancers/monitors"),
	New(Authenticated, "accounts", "load_balancers/pools"),
	New(Authenticated, "accounts", "load_balancers/pools", "health"),
	New(Authenticated, "accounts", "load_balancers/preview"),
	New(Authenticated, "accounts", "members"),
	New(None, "accounts", "pages"),
	New(Authenticated, "accounts", "pages/projects"),
	New(Authenticated, "accounts", "pages/projects", "deployments"),
	New(None, "accounts", "pages/projects", "deployments", "history"),
	New(Authenticated, "accounts", "pages/projects", "deployments", "history/logs"),
	New(Authenticated, "accounts", "pages/projects", "deployments", "retry"),
	New(Authenticated, "accounts", "pages/projects", "deployments", "rollback"),
	New(Authenticated, "accounts", "pages/projects", "domains"),
	New(None, "accounts", "r2"),
	New(Authenticated, "accounts", "r2/buckets"),
	New(None, "accounts", "registrar"),
	New(Authenticated, "accounts", "registrar/domains"),
	New(Authenticated, "accounts", "roles"),
	New(Authenticated, "accounts", "rulesets"),
	New(Authenticated, "accounts", "rulesets", "versions"),
	New(None, "accounts", "storage"),
	New(None, "accounts", "storage/kv"),
	New(Authenticated, "accounts", "storage/kv/namespaces"),
	New(Authenticated, "accounts", "storage/kv/namespaces", "bulk"),
	New(Authenticated, "accounts", "storage/kv/namespaces", "keys"),
	New(Authenticated, "accounts", "storage/kv/namespaces", "values"),
	New(Authenticated, "accounts", "stream"),
	New(Authenticated, "accounts", "stream", "captions"),
	New(Authenticated, "accounts", "stream/copy"),
	New(Authenticated, "accounts", "stream/direct_upload"),
	New(Authenticated, "accounts", "tokens"),
	New(Authenticated, "accounts", "tokens/verify"),
	New(None, "accounts", "workers"),
	New(None, "accounts", "workers/dispatch"),
	New(Authenticated, "accounts", "workers/dispatch/namespaces"),
	New(Authenticated, "accounts", "workers/dispatch/namespaces", "scripts"),
	New(AuthenticatedRaw, "accounts", "workers/dispatch/namespaces", "scripts", "content"),
	New(Authenticated, "accounts", "workers/domains"),
	New(Authenticated, "accounts", "workers/scripts"),
	New(AuthenticatedRaw, "accounts", "workers/scripts", "content"),
	New(Authenticated, "accounts", "workers/scripts", "schedules"),
	New(Authenticated, "accounts", "workers/subdomain"),

	New(Authenticated, "organizations"),
	New(Authenticated, "organizations", "invites"),
	New(Authenticated, "organizations", "members"),

	New(None, "radar"),
	New(None, "radar/http"),
	New(Authenticated, "radar/http/summary"),
	New(Authenticated, "radar/http/timeseries"),
}
