package identity

// Permission codes in resource:action form
const (
	PermStoreRead       = "store:read"
	PermStoreWrite      = "store:write"
	PermUserRead        = "user:read"
	PermUserWrite       = "user:write"
	PermCatalogRead     = "catalog:read"
	PermCatalogWrite    = "catalog:write"
	PermSupplierRead    = "supplier:read"
	PermSupplierWrite   = "supplier:write"
	PermWarehouseRead   = "warehouse:read"
	PermWarehouseWrite  = "warehouse:write"
	PermInventoryRead   = "inventory:read"
	PermInventoryAdjust = "inventory:adjust"
	PermTransferCreate  = "transfer:create"
	PermTransferApprove = "transfer:approve"
	PermTransferFinish  = "transfer:complete"
	PermPurchaseRead    = "purchase:read"
	PermPurchaseWrite   = "purchase:write"
	PermPurchaseApprove = "purchase:approve"
	PermSalesCreate     = "sales:create"
	PermSalesRead       = "sales:read"
	PermSalesCancel     = "sales:cancel"
	PermShiftRead       = "shift:read"
	PermShiftWrite      = "shift:write"
	PermAttendanceSelf  = "attendance:self"
	PermAttendanceRead  = "attendance:read"
	PermAttendanceEdit  = "attendance:edit"
	PermPayrollRead     = "payroll:read"
	PermPayrollGenerate = "payroll:generate"
	PermPayrollApprove  = "payroll:approve"
	PermReportRead      = "report:read"
)

var everyone = []string{
	PermStoreRead,
	PermCatalogRead,
	PermWarehouseRead,
	PermInventoryRead,
	PermSalesCreate,
	PermSalesRead,
	PermShiftRead,
	PermAttendanceSelf,
}

var shiftLeader = append(append([]string{}, everyone...),
	PermUserRead,
	PermTransferCreate,
	PermTransferFinish,
	PermSalesCancel,
	PermShiftWrite,
	PermAttendanceRead,
)

var storeManager = append(append([]string{}, shiftLeader...),
	PermUserWrite,
	PermCatalogWrite,
	PermSupplierRead,
	PermInventoryAdjust,
	PermTransferApprove,
	PermPurchaseRead,
	PermPurchaseWrite,
	PermAttendanceEdit,
	PermPayrollRead,
	PermReportRead,
)

var districtManager = append(append([]string{}, storeManager...),
	PermStoreWrite,
	PermSupplierWrite,
	PermWarehouseWrite,
	PermPurchaseApprove,
	PermPayrollGenerate,
	PermPayrollApprove,
)

var rolePermissions = map[Role][]string{
	RoleDistrictManager: districtManager,
	RoleStoreManager:    storeManager,
	RoleShiftLeader:     shiftLeader,
	RoleSalesAssociate:  everyone,
}
