package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrOrderCannotBeModified     = errs.NewInvalidStateError("order cannot be modified")
	ErrOrderAlreadySubmitted     = errs.NewInvalidStateError("order is already submitted")
	ErrOrderIsEmpty              = errs.NewInvalidStateError("order is empty")
	ErrRestaurantTooFar          = errs.NewInvalidStateError("restaurant is too far from the delivery location")
	ErrRestaurantClosed          = errs.NewInvalidStateError("restaurant is closed")
	ErrOrderCannotBeClaimed      = errs.NewInvalidStateError("order cannot be claimed")
	ErrActionNotAllowed          = errs.NewInvalidStateError("you cannot perform this action")
	ErrStatusAlreadyRecorded     = errs.NewInvalidStateError("status is already recorded")
	ErrOrderAlreadyDelivered     = errs.NewInvalidStateError("order is already delivered")
	ErrOrderAlreadyCancelled     = errs.NewInvalidStateError("order is already cancelled")
	ErrStatusTransitionForbidden = errs.NewInvalidStateError("status transition is not allowed")
	ErrPreviousOrderIsEmpty      = errs.NewInvalidStateError("previous order has no items")

	ErrCannotMixRestaurants      = errs.NewConflictError("cannot mix dishes from different restaurants")
	ErrDishAlreadyInOrder        = errs.NewConflictError("dish is already in the order")
	ErrCannotRecreateFromCurrent = errs.NewConflictError("cannot recreate from the current order")

	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
)

// StatusActor describes who asks to append a status: the requester's courier
// account (nil when the requester is not a courier) and the superuser flag.
type StatusActor struct {
	CourierID   *kernel.UUID
	IsSuperuser bool
}

// Order is the aggregate root of the order lifecycle. It owns its line items and
// its append-only status ledger.
//
// Order follows these invariants:
//   - The ledger starts with Open and only moves forward (see Status)
//   - Line items can change only while the order is Open
//   - All line items belong to one restaurant, each dish appears at most once
//   - The summary is fixed at submission as Σ price × quantity
//   - A courier is assigned exactly when Delivering is appended
//
// The Order struct keeps its fields private; persistence goes through RestoreOrder
// and the accessors.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// userID is the owner of the order
	userID kernel.UUID

	// courierID is the claiming courier account (nil until claimed)
	courierID *kernel.UUID

	// summary is the cached total computed at submission
	summary int

	deliveryAddress  string
	deliveryLocation *kernel.Location
	details          string
	createdAt        time.Time

	lines    []*Line
	statuses []StatusEntry

	// persistedStatuses counts ledger entries already stored
	persistedStatuses int
	linesChanged      bool

	isConstructed bool
}

// NewOrder creates an empty Open order for userID.
//
// Parameters:
//   - id: Unique identifier for the order
//   - userID: The owning user
//   - now: Creation time, also the timestamp of the Open status
//
// Returns:
//   - *Order: The created order
//   - error: Validation error if an identifier or the time is invalid
//
// Example:
//
//	cart, err := order.NewOrder(kernel.NewUUID(), userID, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, userID kernel.UUID, now time.Time) (*Order, error) {
	o := &Order{
		lines:         make([]*Line, 0),
		isConstructed: true,
	}

	opened, err := NewStatusEntry(Open, now.Truncate(time.Microsecond))
	if err = errors.Join(o.setID(id), o.setUserID(userID), err); err != nil {
		return nil, err
	}

	o.createdAt = opened.timestamp
	o.statuses = []StatusEntry{opened}
	return o, nil
}

// RestoreOrder rebuilds an order loaded from persistence. The ledger is sorted by
// timestamp (then lifecycle rank) and must not be empty.
//
// Parameters:
//   - id, userID: identifiers
//   - courierID: claiming courier account or nil
//   - summary: stored total
//   - deliveryAddress, deliveryLocation, details: submission data (empty until submitted)
//   - createdAt: creation time
//   - lines: line items
//   - statuses: the complete ledger
//
// Returns:
//   - *Order: The restored order
//   - error: Validation error if identifiers are invalid or the ledger is empty
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	courierID *kernel.UUID,
	summary int,
	deliveryAddress string,
	deliveryLocation *kernel.Location,
	details string,
	createdAt time.Time,
	lines []*Line,
	statuses []StatusEntry,
) (*Order, error) {
	o := &Order{
		courierID:        courierID,
		summary:          summary,
		deliveryAddress:  deliveryAddress,
		deliveryLocation: deliveryLocation,
		details:          details,
		createdAt:        createdAt.UTC(),
		lines:            slices.Clone(lines),
		isConstructed:    true,
	}
	if o.lines == nil {
		o.lines = make([]*Line, 0)
	}

	if err := errors.Join(o.setID(id), o.setUserID(userID)); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, errs.NewValueIsRequiredError("statuses")
	}

	o.statuses = slices.Clone(statuses)
	slices.SortStableFunc(o.statuses, func(a, b StatusEntry) int {
		switch {
		case a.before(b):
			return -1
		case b.before(a):
			return 1
		default:
			return 0
		}
	})
	o.persistedStatuses = len(o.statuses)
	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Courier returns the claiming courier account, nil if unclaimed.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Summary returns the total fixed at submission (0 while Open).
func (o *Order) Summary() int {
	return o.summary
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryLocation returns nil until the order is submitted.
func (o *Order) DeliveryLocation() *kernel.Location {
	return o.deliveryLocation
}

func (o *Order) Details() string {
	return o.details
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Lines returns a copy of the line items.
func (o *Order) Lines() []*Line {
	out := make([]*Line, 0, len(o.lines))
	for _, l := range o.lines {
		out = append(out, l.clone())
	}
	return out
}

// Line returns the line item for dishID, or NotFound.
func (o *Order) Line(dishID kernel.UUID) (*Line, error) {
	idx := o.lineIndex(dishID)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("dish", dishID.String())
	}
	return o.lines[idx].clone(), nil
}

// Statuses returns the ledger, oldest first.
func (o *Order) Statuses() []StatusEntry {
	return slices.Clone(o.statuses)
}

// CurrentStatus is the latest ledger entry.
func (o *Order) CurrentStatus() Status {
	return o.statuses[len(o.statuses)-1].status
}

// HasStatus reports whether the ledger contains status.
func (o *Order) HasStatus(status Status) bool {
	return slices.ContainsFunc(o.statuses, func(e StatusEntry) bool { return e.status == status })
}

// IsOpen reports whether the order is still a cart.
func (o *Order) IsOpen() bool {
	return o.CurrentStatus() == Open
}

// IsOwnedBy reports whether userID owns the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.userID.IsEqual(userID)
}

// IsAssignedTo reports whether the order is claimed by the courier account.
func (o *Order) IsAssignedTo(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

// RestaurantID returns the restaurant of the line items, nil for an empty order.
func (o *Order) RestaurantID() *kernel.UUID {
	if len(o.lines) == 0 {
		return nil
	}
	id := o.lines[0].restaurantID
	return &id
}

// Total is Σ price × quantity over the current line items.
func (o *Order) Total() int {
	total := 0
	for _, l := range o.lines {
		total += l.Subtotal()
	}
	return total
}

// ValidateModifiable checks that line items may still change.
func (o *Order) ValidateModifiable() error {
	if !o.IsOpen() {
		return ErrOrderCannotBeModified
	}
	return nil
}

// AddLine adds a new line item.
//
// Preconditions, checked in this order:
//   - the order is Open (ErrOrderCannotBeModified)
//   - every line item belongs to the line's restaurant (ErrCannotMixRestaurants)
//   - the dish is not already in the order (ErrDishAlreadyInOrder)
//
// Example:
//
//	line, _ := order.NewLine(dish, 2)
//	if err := cart.AddLine(line); errors.Is(err, errs.ErrConflict) {
//	    // another restaurant, or the dish is already there
//	}
func (o *Order) AddLine(line *Line) error {
	if line == nil {
		return errs.NewValueIsRequiredError("line")
	}
	if err := o.ValidateModifiable(); err != nil {
		return err
	}
	for _, l := range o.lines {
		if !l.restaurantID.IsEqual(line.restaurantID) {
			return ErrCannotMixRestaurants
		}
	}
	if o.lineIndex(line.dishID) >= 0 {
		return ErrDishAlreadyInOrder
	}

	o.lines = append(o.lines, line.clone())
	o.linesChanged = true
	return nil
}

// UpdateLineQuantity sets the quantity of an existing line item.
func (o *Order) UpdateLineQuantity(dishID kernel.UUID, quantity int) error {
	if err := o.ValidateModifiable(); err != nil {
		return err
	}
	idx := o.lineIndex(dishID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("dish", dishID.String())
	}
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}

	o.lines[idx].quantity = quantity
	o.linesChanged = true
	return nil
}

// RemoveLine deletes the line item for dishID.
func (o *Order) RemoveLine(dishID kernel.UUID) error {
	if err := o.ValidateModifiable(); err != nil {
		return err
	}
	idx := o.lineIndex(dishID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("dish", dishID.String())
	}

	o.lines = slices.Delete(o.lines, idx, idx+1)
	o.linesChanged = true
	return nil
}

// ClearLines removes every line item.
func (o *Order) ClearLines() error {
	if err := o.ValidateModifiable(); err != nil {
		return err
	}

	o.lines = make([]*Line, 0)
	o.linesChanged = true
	return nil
}

// ReplaceLinesFrom replaces this open order's line items with copies of prev's
// (dish, quantity) pairs.
//
// Preconditions, checked in this order:
//   - this order is Open (ErrOrderCannotBeModified)
//   - prev is a different order (ErrCannotRecreateFromCurrent)
//   - prev has at least one line item (ErrPreviousOrderIsEmpty)
func (o *Order) ReplaceLinesFrom(prev *Order) error {
	if err := prev.Validate(); err != nil {
		return err
	}
	if err := o.ValidateModifiable(); err != nil {
		return err
	}
	if o.IsEqual(prev) {
		return ErrCannotRecreateFromCurrent
	}
	if len(prev.lines) == 0 {
		return ErrPreviousOrderIsEmpty
	}

	o.lines = prev.Lines()
	o.linesChanged = true
	return nil
}

// Submit places the order: it stores the delivery data, fixes the summary and
// appends Preparing.
//
// Preconditions, checked in this order:
//   - the order is Open (ErrOrderAlreadySubmitted)
//   - it has at least one line item (ErrOrderIsEmpty)
//   - r sells the line items and is within maxDistance meters of location (ErrRestaurantTooFar)
//   - r is open at now on its local clock (ErrRestaurantClosed)
//
// Parameters:
//   - address: delivery address (required)
//   - location: delivery location
//   - details: free-form notes for the courier
//   - r: the restaurant of the line items
//   - maxDistance: largest accepted restaurant-to-customer distance in meters
//   - now: submission time
//
// Example:
//
//	err := cart.Submit("Tverskaya 1", loc, "2nd floor", r, 3500, time.Now())
//	if errors.Is(err, order.ErrRestaurantClosed) {
//	    // try again later
//	}
func (o *Order) Submit(
	address string,
	location kernel.Location,
	details string,
	r *restaurant.Restaurant,
	maxDistance float64,
	now time.Time,
) error {
	if !o.IsOpen() {
		return ErrOrderAlreadySubmitted
	}
	if len(o.lines) == 0 {
		return ErrOrderIsEmpty
	}
	if strings.TrimSpace(address) == "" {
		return ErrDeliveryAddressIsRequired
	}
	if err := errors.Join(location.Validate(), r.Validate()); err != nil {
		return err
	}
	if !r.ID().IsEqual(o.lines[0].restaurantID) {
		return errs.NewValueIsInvalidErrorWithCause("restaurant",
			fmt.Errorf("%s does not sell the dishes of order %s", r.ID(), o.id))
	}

	distance, err := r.DistanceTo(location)
	if err != nil {
		return err
	}
	if distance > maxDistance {
		return fmt.Errorf("%w: %.0fm is more than %.0fm", ErrRestaurantTooFar, distance, maxDistance)
	}
	if !r.IsOpenAt(now) {
		return ErrRestaurantClosed
	}

	o.deliveryAddress = address
	o.deliveryLocation = &location
	o.details = details
	o.summary = o.Total()
	o.appendStatus(Preparing, now)
	return nil
}

// ValidateClaimable checks the order waits for a courier: its current status is
// Preparing and nobody claimed it.
func (o *Order) ValidateClaimable() error {
	if o.CurrentStatus() != Preparing || o.courierID != nil {
		return ErrOrderCannotBeClaimed
	}
	return nil
}

// AssignCourier records the claiming courier and appends Delivering.
// Distance and the courier's other deliveries are checked by services.OrderDispatcher.
func (o *Order) AssignCourier(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if err := o.ValidateClaimable(); err != nil {
		return err
	}

	o.courierID = &courierID
	o.appendStatus(Delivering, now)
	return nil
}

// AppendStatus records a terminal status requested by actor.
//
// Rules:
//   - only the assigned courier or a superuser may append, anyone else gets NotFound
//   - only Cancelled and Delivered can be appended (ErrActionNotAllowed)
//   - a status is recorded once (ErrStatusAlreadyRecorded)
//   - Cancelled and Delivered exclude each other
//   - the order must be Delivering (ErrStatusTransitionForbidden)
func (o *Order) AppendStatus(status Status, actor StatusActor, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	isAssignedCourier := actor.CourierID != nil && o.IsAssignedTo(*actor.CourierID)
	if !isAssignedCourier && !actor.IsSuperuser {
		return errs.NewObjectNotFoundError("order", o.id.String())
	}

	if !status.IsFinal() {
		return ErrActionNotAllowed
	}
	if o.HasStatus(status) {
		return ErrStatusAlreadyRecorded
	}
	if status == Cancelled && o.HasStatus(Delivered) {
		return ErrOrderAlreadyDelivered
	}
	if status == Delivered && o.HasStatus(Cancelled) {
		return ErrOrderAlreadyCancelled
	}
	if o.CurrentStatus() != Delivering {
		return ErrStatusTransitionForbidden
	}

	o.appendStatus(status, now)
	return nil
}

// PendingStatuses returns ledger entries not yet persisted.
func (o *Order) PendingStatuses() []StatusEntry {
	return slices.Clone(o.statuses[o.persistedStatuses:])
}

// LastStatus returns the latest ledger entry.
func (o *Order) LastStatus() StatusEntry {
	return o.statuses[len(o.statuses)-1]
}

// LinesChanged reports whether line items changed since the order was loaded.
func (o *Order) LinesChanged() bool {
	return o.linesChanged
}

// MarkPersisted is called by repositories after storing the aggregate.
func (o *Order) MarkPersisted() {
	o.persistedStatuses = len(o.statuses)
	o.linesChanged = false
}

// appendStatus adds an entry whose timestamp is strictly after the previous one,
// at the microsecond precision the database keeps.
func (o *Order) appendStatus(status Status, now time.Time) {
	ts := now.UTC().Truncate(time.Microsecond)
	if last := o.statuses[len(o.statuses)-1].timestamp; !ts.After(last) {
		ts = last.Add(time.Microsecond)
	}
	o.statuses = append(o.statuses, StatusEntry{status: status, timestamp: ts})
}

func (o *Order) lineIndex(dishID kernel.UUID) int {
	return slices.IndexFunc(o.lines, func(l *Line) bool { return l.dishID.IsEqual(dishID) })
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	o.userID = userID
	return nil
}
