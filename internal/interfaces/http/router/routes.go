package router

import (
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/interfaces/http/handler"
	"github.com/gemline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the gin handlers mounted by RegisterAPI
type Handlers struct {
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Stores         *handler.StoreHandler
	Categories     *handler.CategoryHandler
	Products       *handler.ProductHandler
	Suppliers      *handler.SupplierHandler
	Warehouses     *handler.WarehouseHandler
	Inventory      *handler.InventoryHandler
	Transfers      *handler.TransferHandler
	Orders         *handler.OrderHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Shifts         *handler.ShiftHandler
	Attendance     *handler.AttendanceHandler
	Payroll        *handler.PayrollHandler
	Reports        *handler.ReportHandler
	System         *handler.SystemHandler
}

// RegisterAPI registers one DomainGroup per resource. loginLimit guards the
// unauthenticated credential endpoints and may be nil.
func RegisterAPI(r *Router, h Handlers, loginLimit gin.HandlerFunc) {
	r.Register(
		authRoutes(h.Auth, loginLimit),
		userRoutes(h.Users),
		storeRoutes(h.Stores),
		categoryRoutes(h.Categories),
		productRoutes(h.Products),
		supplierRoutes(h.Suppliers),
		warehouseRoutes(h.Warehouses),
		inventoryRoutes(h.Inventory),
		transferRoutes(h.Transfers),
		orderRoutes(h.Orders),
		purchaseOrderRoutes(h.PurchaseOrders),
		shiftRoutes(h.Shifts),
		attendanceRoutes(h.Attendance),
		payrollRoutes(h.Payroll),
		reportRoutes(h.Reports),
		systemRoutes(h.System),
	)
}

var perm = middleware.RequirePermission

func authRoutes(h *handler.AuthHandler, loginLimit gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	public := []gin.HandlerFunc{}
	if loginLimit != nil {
		public = append(public, loginLimit)
	}
	g.POST("/login", append(public, h.Login)...)
	g.POST("/refresh", append(public, h.RefreshToken)...)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.GetCurrentUser)
	g.PUT("/password", h.ChangePassword)
	return g
}

func userRoutes(h *handler.UserHandler) *DomainGroup {
	read, write := perm(identity.PermUserRead), perm(identity.PermUserWrite)
	return NewDomainGroup("users", "/users").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		POST("/:id/deactivate", write, h.Deactivate).
		POST("/:id/activate", write, h.Activate)
}

func storeRoutes(h *handler.StoreHandler) *DomainGroup {
	read, write := perm(identity.PermStoreRead), perm(identity.PermStoreWrite)
	return NewDomainGroup("stores", "/stores").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		POST("/:id/close", write, h.Close)
}

func categoryRoutes(h *handler.CategoryHandler) *DomainGroup {
	read, write := perm(identity.PermCatalogRead), perm(identity.PermCatalogWrite)
	return NewDomainGroup("categories", "/categories").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		DELETE("/:id", write, h.Delete)
}

func productRoutes(h *handler.ProductHandler) *DomainGroup {
	read, write := perm(identity.PermCatalogRead), perm(identity.PermCatalogWrite)
	return NewDomainGroup("products", "/products").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		POST("/:id/discontinue", write, h.Discontinue)
}

func supplierRoutes(h *handler.SupplierHandler) *DomainGroup {
	read, write := perm(identity.PermSupplierRead), perm(identity.PermSupplierWrite)
	return NewDomainGroup("suppliers", "/suppliers").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		POST("/:id/deactivate", write, h.Deactivate)
}

func warehouseRoutes(h *handler.WarehouseHandler) *DomainGroup {
	read, write := perm(identity.PermWarehouseRead), perm(identity.PermWarehouseWrite)
	return NewDomainGroup("warehouses", "/warehouses").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.GetByID).
		PUT("/:id", write, h.Update).
		POST("/:id/deactivate", write, h.Deactivate)
}

func inventoryRoutes(h *handler.InventoryHandler) *DomainGroup {
	read := perm(identity.PermInventoryRead)
	return NewDomainGroup("inventory", "/inventory").
		GET("", read, h.List).
		GET("/:warehouse_id/:product_id", read, h.Get).
		POST("/adjust", perm(identity.PermInventoryAdjust), h.Adjust)
}

func transferRoutes(h *handler.TransferHandler) *DomainGroup {
	read := perm(identity.PermInventoryRead)
	approve := perm(identity.PermTransferApprove)
	return NewDomainGroup("transfers", "/transfers").
		GET("", read, h.List).
		POST("", perm(identity.PermTransferCreate), h.Request).
		GET("/:id", read, h.Get).
		POST("/:id/approve", approve, h.Approve).
		POST("/:id/reject", approve, h.Reject).
		POST("/:id/complete", perm(identity.PermTransferFinish), h.Complete)
}

func orderRoutes(h *handler.OrderHandler) *DomainGroup {
	read := perm(identity.PermSalesRead)
	return NewDomainGroup("orders", "/orders").
		GET("", read, h.List).
		POST("", perm(identity.PermSalesCreate), h.Create).
		GET("/:id", read, h.Get).
		POST("/:id/cancel", perm(identity.PermSalesCancel), h.Cancel)
}

func purchaseOrderRoutes(h *handler.PurchaseOrderHandler) *DomainGroup {
	read, write := perm(identity.PermPurchaseRead), perm(identity.PermPurchaseWrite)
	return NewDomainGroup("purchase-orders", "/purchase-orders").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.Get).
		PUT("/:id", write, h.Update).
		POST("/:id/submit", write, h.Submit).
		POST("/:id/approve", perm(identity.PermPurchaseApprove), h.Approve).
		POST("/:id/receive", write, h.Receive).
		POST("/:id/cancel", write, h.Cancel)
}

func shiftRoutes(h *handler.ShiftHandler) *DomainGroup {
	read, write := perm(identity.PermShiftRead), perm(identity.PermShiftWrite)
	return NewDomainGroup("shifts", "/shifts").
		GET("", read, h.List).
		POST("", write, h.Create).
		GET("/:id", read, h.Get).
		PUT("/:id", write, h.Update).
		POST("/:id/cancel", write, h.Cancel)
}

func attendanceRoutes(h *handler.AttendanceHandler) *DomainGroup {
	self := perm(identity.PermAttendanceSelf)
	return NewDomainGroup("attendance", "/attendance").
		POST("/clock-in", self, h.ClockIn).
		POST("/clock-out", self, h.ClockOut).
		// associates get their own records only; the service narrows the filter
		GET("", middleware.RequireAnyPermission(identity.PermAttendanceRead, identity.PermAttendanceSelf), h.List).
		PUT("/:id", perm(identity.PermAttendanceEdit), h.Correct)
}

func payrollRoutes(h *handler.PayrollHandler) *DomainGroup {
	read, approve := perm(identity.PermPayrollRead), perm(identity.PermPayrollApprove)
	return NewDomainGroup("payrolls", "/payrolls").
		POST("/generate", perm(identity.PermPayrollGenerate), h.Generate).
		GET("", read, h.List).
		GET("/:id", read, h.Get).
		POST("/:id/approve", approve, h.Approve).
		POST("/:id/pay", approve, h.MarkPaid)
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	read := perm(identity.PermReportRead)
	return NewDomainGroup("reports", "/reports").
		GET("/:type", read, h.Get).
		POST("/:type/archive", read, h.Archive)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}
