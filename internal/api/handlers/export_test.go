package handlers

import "time"

func (h *ServiceabilityHandler) SetClock(now func() time.Time) { h.now = now }

func (h *SubscriptionHandler) SetClock(now func() time.Time) { h.now = now }

func (h *DeliveryHandler) SetClock(now func() time.Time) { h.now = now }
