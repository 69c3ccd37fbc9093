package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/hub"
	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, utils.BadRequestf("invalid %s", param)
	}
	return uint(id), nil
}

// CreateTable seeds a new table with capacity available seats.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int `json:"table_number" binding:"required"`
		Capacity    int `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.TableNumber <= 0 || req.Capacity <= 0 {
		utils.RespondAppError(c, utils.BadRequestf("table_number and capacity must be positive"))
		return
	}

	var existing models.Table
	if err := tc.DB.Where("table_number = ?", req.TableNumber).First(&existing).Error; err == nil {
		utils.RespondAppError(c, utils.Conflictf("table number %d already exists", req.TableNumber))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableAvailable,
		Seats:       models.NewSeats(req.Capacity),
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableCreate(table)
	utils.InfoLogger.Printf("New table created: #%d (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusOK, "Table created successfully", table)
}

// GetAllTables lists every table with its seats.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID returns one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// DeleteTable removes a table. Occupied tables cannot be deleted.
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	if table.IsOccupied {
		utils.RespondAppError(c, utils.Conflictf("table %d is occupied", table.TableNumber))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableDelete(table.ID)
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// AssignTable binds an order to the table and occupies every seat.
func (tc *TableController) AssignTable(c *gin.Context) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	var order models.Order
	if err := tc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order %d not found", orderID))
		return
	}
	if table.IsOccupied {
		utils.RespondAppError(c, utils.Conflictf("table %d is already occupied", table.TableNumber))
		return
	}

	table.IsOccupied = true
	table.Status = models.TableOccupied
	table.CurrentOrderID = &order.ID
	for i := range table.Seats {
		table.Seats[i].Status = models.SeatOccupied
		table.Seats[i].CustomerName = order.CustomerName
	}
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d assigned to order %d", table.TableNumber, order.ID)
	utils.RespondJSON(c, http.StatusOK, "Table assigned", table)
}

// ReleaseTable frees the table and all of its seats. Releasing an already
// available table is a no-op success.
func (tc *TableController) ReleaseTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}

	releaseTable(&table)
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d released", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table released", table)
}

func releaseTable(table *models.Table) {
	table.IsOccupied = false
	table.Status = models.TableAvailable
	table.CurrentOrderID = nil
	for i := range table.Seats {
		table.Seats[i].Status = models.SeatAvailable
		table.Seats[i].CustomerName = ""
	}
	table.UpdatedAt = time.Now()
}

// AssignSeat occupies a single seat. Seating a guest at an idle table flips
// the table to occupied, but leaves current_order_id unset until an order
// is actually assigned.
func (tc *TableController) AssignSeat(c *gin.Context) {
	seatNumber, err := parseID(c, "seat_number")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var req struct {
		CustomerName string `json:"customer_name"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}

	seat := table.SeatByNumber(int(seatNumber))
	if seat == nil {
		utils.RespondAppError(c, utils.NotFoundf("seat %d not found on table %d", seatNumber, table.TableNumber))
		return
	}

	seat.Status = models.SeatOccupied
	seat.CustomerName = req.CustomerName
	if !table.IsOccupied {
		table.IsOccupied = true
		table.Status = models.TableOccupied
	}
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Seat assigned", table)
}

// ReleaseSeat frees a single seat. When the last occupied seat frees up the
// table auto-releases.
func (tc *TableController) ReleaseSeat(c *gin.Context) {
	seatNumber, err := parseID(c, "seat_number")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}

	seat := table.SeatByNumber(int(seatNumber))
	if seat == nil {
		utils.RespondAppError(c, utils.NotFoundf("seat %d not found on table %d", seatNumber, table.TableNumber))
		return
	}

	seat.Status = models.SeatAvailable
	seat.CustomerName = ""
	if table.AllSeatsAvailable() {
		releaseTable(&table)
	}
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Seat released", table)
}

// ResizeCapacity grows the seat list by appending available seats or shrinks
// it by dropping trailing seats. Existing seat statuses are untouched.
func (tc *TableController) ResizeCapacity(c *gin.Context) {
	var req struct {
		Capacity int `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity <= 0 {
		utils.RespondAppError(c, utils.BadRequestf("capacity must be positive"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}

	if req.Capacity > len(table.Seats) {
		for n := len(table.Seats) + 1; n <= req.Capacity; n++ {
			table.Seats = append(table.Seats, models.Seat{SeatNumber: n, Status: models.SeatAvailable})
		}
	} else {
		table.Seats = table.Seats[:req.Capacity]
	}
	table.Capacity = req.Capacity
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d resized to capacity %d", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusOK, "Table capacity updated", table)
}

// MergeTables folds table B's order into table A's order, grows A by B's
// capacity, and releases B. Both tables must be occupied.
func (tc *TableController) MergeTables(c *gin.Context) {
	var tableA, tableB models.Table
	if err := tc.DB.First(&tableA, c.Param("table_a")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	if err := tc.DB.First(&tableB, c.Param("table_b")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	if tableA.ID == tableB.ID {
		utils.RespondAppError(c, utils.Conflictf("cannot merge table %d into itself", tableA.TableNumber))
		return
	}

	if !tableA.IsOccupied || tableA.CurrentOrderID == nil {
		utils.RespondAppError(c, utils.Conflictf("table %d is not occupied", tableA.TableNumber))
		return
	}
	if !tableB.IsOccupied || tableB.CurrentOrderID == nil {
		utils.RespondAppError(c, utils.Conflictf("table %d is not occupied", tableB.TableNumber))
		return
	}

	var orderA, orderB models.Order
	if err := tc.DB.First(&orderA, *tableA.CurrentOrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order %d not found", *tableA.CurrentOrderID))
		return
	}
	if err := tc.DB.First(&orderB, *tableB.CurrentOrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order %d not found", *tableB.CurrentOrderID))
		return
	}

	orderA.Items = append(orderA.Items, orderB.Items...)
	orderA.TotalAmount += orderB.TotalAmount
	orderA.UpdatedAt = time.Now()
	if err := tc.DB.Save(&orderA).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Grow A by B's seat count; arriving guests sit down occupied.
	for n := len(tableA.Seats) + 1; n <= tableA.Capacity+tableB.Capacity; n++ {
		tableA.Seats = append(tableA.Seats, models.Seat{SeatNumber: n, Status: models.SeatOccupied})
	}
	tableA.Capacity += tableB.Capacity
	tableA.UpdatedAt = time.Now()
	if err := tc.DB.Save(&tableA).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	releaseTable(&tableB)
	if err := tc.DB.Save(&tableB).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(tableA)
	hub.BroadcastTableUpdate(tableB)
	utils.InfoLogger.Printf("Merged table %d into table %d (order %d, total %.2f)",
		tableB.TableNumber, tableA.TableNumber, orderA.ID, orderA.TotalAmount)
	utils.RespondJSON(c, http.StatusOK, "Tables merged", tableA)
}

// SplitBill partitions the table's current order into new orders by one of
// three methods: explicit item-index groups, seat groups, or equal
// round-robin parts. The source order is left as-is.
func (tc *TableController) SplitBill(c *gin.Context) {
	var req struct {
		Method     string           `json:"method" binding:"required"`
		Groups     [][]int          `json:"groups"`
		SeatGroups map[string][]int `json:"seat_groups"`
		Parts      int              `json:"parts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("table not found"))
		return
	}
	if !table.IsOccupied || table.CurrentOrderID == nil {
		utils.RespondAppError(c, utils.Conflictf("table %d has no active order", table.TableNumber))
		return
	}

	var source models.Order
	if err := tc.DB.First(&source, *table.CurrentOrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order %d not found", *table.CurrentOrderID))
		return
	}

	groups, seatFor, err := buildSplitGroups(req.Method, req.Groups, req.SeatGroups, req.Parts, len(source.Items))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	orders := make([]models.Order, 0, len(groups))
	for gi, group := range groups {
		split := models.Order{
			OrderType:     source.OrderType,
			TableID:       source.TableID,
			TableNumber:   source.TableNumber,
			CustomerName:  source.CustomerName,
			CustomerPhone: source.CustomerPhone,
			PaymentType:   source.PaymentType,
			PaymentStatus: models.PaymentPending,
		}
		if split.TableID == nil {
			split.TableID = &table.ID
		}
		for _, idx := range group {
			split.Items = append(split.Items, source.Items[idx])
			split.TotalAmount += source.Items[idx].Price
		}
		if seat, ok := seatFor[gi]; ok {
			split.AssignedSeats = models.IntList{seat}
		}
		if err := tc.DB.Create(&split).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		orders = append(orders, split)
	}

	utils.InfoLogger.Printf("Order %d split into %d orders on table %d (%s)",
		source.ID, len(orders), table.TableNumber, req.Method)
	utils.RespondJSON(c, http.StatusOK, "Bill split", orders)
}

// buildSplitGroups resolves the requested split method into item-index
// groups, plus a group-index -> seat number map for the seats method.
func buildSplitGroups(method string, groups [][]int, seatGroups map[string][]int, parts, itemCount int) ([][]int, map[int]int, error) {
	seatFor := map[int]int{}

	switch method {
	case "items":
		if len(groups) == 0 {
			return nil, nil, utils.BadRequestf("groups are required for the items method")
		}
		for _, g := range groups {
			for _, idx := range g {
				if idx < 0 || idx >= itemCount {
					return nil, nil, utils.BadRequestf("item index %d out of range", idx)
				}
			}
		}
		return groups, seatFor, nil

	case "seats":
		if len(seatGroups) == 0 {
			return nil, nil, utils.BadRequestf("seat_groups are required for the seats method")
		}
		// Deterministic order: ascending seat number.
		seats := make([]int, 0, len(seatGroups))
		bySeat := make(map[int][]int, len(seatGroups))
		for k, g := range seatGroups {
			seat, err := strconv.Atoi(k)
			if err != nil || seat <= 0 {
				return nil, nil, utils.BadRequestf("invalid seat number %q", k)
			}
			for _, idx := range g {
				if idx < 0 || idx >= itemCount {
					return nil, nil, utils.BadRequestf("item index %d out of range", idx)
				}
			}
			seats = append(seats, seat)
			bySeat[seat] = g
		}
		sort.Ints(seats)
		out := make([][]int, 0, len(seats))
		for gi, seat := range seats {
			out = append(out, bySeat[seat])
			seatFor[gi] = seat
		}
		return out, seatFor, nil

	case "equal":
		if parts <= 0 {
			return nil, nil, utils.BadRequestf("parts must be positive")
		}
		out := make([][]int, parts)
		for i := 0; i < itemCount; i++ {
			out[i%parts] = append(out[i%parts], i)
		}
		return out, seatFor, nil

	default:
		return nil, nil, utils.BadRequestf("unrecognized split method %q", method)
	}
}

// GetTableStats counts tables per status for the floor dashboard.
func (tc *TableController) GetTableStats(c *gin.Context) {
	stats := map[string]int64{}
	for _, status := range []string{models.TableAvailable, models.TableOccupied, models.TableReserved, models.TableCleaning} {
		var count int64
		if err := tc.DB.Model(&models.Table{}).Where("status = ?", status).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		stats[status] = count
	}

	var total int64
	tc.DB.Model(&models.Table{}).Count(&total)
	utils.RespondJSON(c, http.StatusOK, "Table stats", gin.H{
		"by_status": stats,
		"total":     total,
	})
}
