package offer

import (
	"service/internal/entities"
)

func ToDomain(o *OfferDB) *entities.Offer {
	if o == nil {
		return nil
	}

	return &entities.Offer{
		ID:             o.ID,
		OrderID:        o.OrderID,
		DeliveryType:   entities.DeliveryType(o.DeliveryType),
		ProviderID:     o.ProviderID,
		RouteProviders: o.RouteProviderIDs,
		DistanceMeters: o.DistanceMeters,
		Rank:           o.Rank,
		TriggerTime:    o.TriggerTime,
		IsPending:      o.IsPending,
		TryCount:       o.TryCount,
		Resolution:     entities.OfferResolution(o.Resolution),
		CreatedAt:      o.CreatedAt,
	}
}

func ToDomainList(offersDB []OfferDB) []entities.Offer {
	if len(offersDB) == 0 {
		return []entities.Offer{}
	}

	result := make([]entities.Offer, len(offersDB))
	for i, offerDB := range offersDB {
		result[i] = *ToDomain(&offerDB)
	}
	return result
}

func FromDomain(offerEntity *entities.Offer) *OfferDB {
	if offerEntity == nil {
		return nil
	}

	return &OfferDB{
		ID:               offerEntity.ID,
		OrderID:          offerEntity.OrderID,
		DeliveryType:     offerEntity.DeliveryType.String(),
		ProviderID:       offerEntity.ProviderID,
		RouteProviderIDs: offerEntity.RouteProviders,
		DistanceMeters:   offerEntity.DistanceMeters,
		Rank:             offerEntity.Rank,
		TriggerTime:      offerEntity.TriggerTime,
		IsPending:        offerEntity.IsPending,
		TryCount:         offerEntity.TryCount,
		Resolution:       offerEntity.Resolution.String(),
	}
}
