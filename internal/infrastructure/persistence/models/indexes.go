package models

// UniqueIndex is a per-tenant uniqueness rule. Struct tags cannot express
// these because tenant_id lives on the embedded TenantAggregateModel.
type UniqueIndex struct {
	Table   string
	Name    string
	Columns []string
	// Where makes the index partial. MySQL has no partial indexes and skips
	// these; row locks still guard the same rules there.
	Where string
}

// TenantUniqueIndexes lists the business keys that are unique within a tenant.
// The SQL migrations create the same indexes for postgres.
func TenantUniqueIndexes() []UniqueIndex {
	return []UniqueIndex{
		{Table: "users", Name: "idx_users_tenant_email", Columns: []string{"tenant_id", "email"}},
		{Table: "branches", Name: "idx_branches_tenant_code", Columns: []string{"tenant_id", "code"}},
		{Table: "service_areas", Name: "idx_service_areas_tenant_pincode", Columns: []string{"tenant_id", "pincode"}},
		{Table: "branding_settings", Name: "idx_branding_settings_tenant", Columns: []string{"tenant_id"}},
		{Table: "customers", Name: "idx_customers_tenant_phone", Columns: []string{"tenant_id", "phone"}},
		{Table: "service_items", Name: "idx_service_items_tenant_code", Columns: []string{"tenant_id", "code"}},
		{Table: "subscription_plans", Name: "idx_plans_tenant_code", Columns: []string{"tenant_id", "code"}},
		{Table: "orders", Name: "idx_orders_tenant_number", Columns: []string{"tenant_id", "order_number"}},
		{Table: "invoices", Name: "idx_invoices_tenant_number", Columns: []string{"tenant_id", "invoice_number"}},
		{Table: "payments", Name: "idx_payments_tenant_number", Columns: []string{"tenant_id", "payment_number"}},
		{Table: "subscriptions", Name: "idx_subscriptions_one_active", Columns: []string{"tenant_id", "customer_id"},
			Where: "status = 'ACTIVE'"},
		{Table: "invoices", Name: "idx_invoices_one_final", Columns: []string{"tenant_id", "order_id"},
			Where: "type = 'FINAL' AND status <> 'VOID'"},
	}
}
