package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopcore/shopcore-backend/api/responses"
	"github.com/shopcore/shopcore-backend/api/validators"
	"github.com/shopcore/shopcore-backend/internal/catalog"
	pkgerrors "github.com/shopcore/shopcore-backend/pkg/errors"
	"github.com/shopcore/shopcore-backend/pkg/logger"
	"github.com/shopcore/shopcore-backend/pkg/types"
)

type createProductRequest struct {
	ProductName string       `json:"product_name" validate:"required,max=100"`
	Description string       `json:"description"`
	Price       *types.Money `json:"price" validate:"required"`
}

type updateProductRequest struct {
	ProductName *string      `json:"product_name,omitempty" validate:"omitempty,max=100"`
	Description *string      `json:"description,omitempty"`
	Price       *types.Money `json:"price,omitempty"`
}

func (req createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		ProductName: req.ProductName,
		Description: req.Description,
		Price:       req.Price.Decimal,
	}
}

func (req updateProductRequest) toInput() catalog.UpdateProductInput {
	input := catalog.UpdateProductInput{
		ProductName: req.ProductName,
		Description: req.Description,
	}
	if req.Price != nil {
		price := req.Price.Decimal
		input.Price = &price
	}
	return input
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return id, nil
}

// ProductList returns the whole catalog. Open to unauthenticated callers.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductCreate handles admin product creation.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductDetail retrieves a single product by ID.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductUpdate handles PUT with a full payload and PATCH with a sparse one.
func ProductUpdate(svc catalog.Service, logg *logger.Logger, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input catalog.UpdateProductInput
		if partial {
			var body updateProductRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = body.toInput()
		} else {
			var body createProductRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			full := body.toInput()
			input = catalog.UpdateProductInput{
				ProductName: &full.ProductName,
				Description: &full.Description,
				Price:       &full.Price,
			}
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product and, through the cascade, its cart rows.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
