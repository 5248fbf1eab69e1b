package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/mapbridge/internal/codec"
)

// buildSchema creates the GraphQL schema. mapState resolves to the storage
// encoding of the state, so field names match GET /v1/maps/:id/state.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	latLngType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LatLng",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	cameraType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CameraPosition",
		Fields: graphql.Fields{
			"target":  &graphql.Field{Type: latLngType},
			"zoom":    &graphql.Field{Type: graphql.Float},
			"tilt":    &graphql.Field{Type: graphql.Float},
			"bearing": &graphql.Field{Type: graphql.Float},
		},
	})

	pathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PathOverlay",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"coords":       &graphql.Field{Type: graphql.NewList(latLngType)},
			"color":        &graphql.Field{Type: graphql.Float, Description: "ARGB packed"},
			"outlineColor": &graphql.Field{Type: graphql.Float, Description: "ARGB packed"},
			"width":        &graphql.Field{Type: graphql.Float},
			"lineCap":      &graphql.Field{Type: graphql.String},
			"lineJoin":     &graphql.Field{Type: graphql.String},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"position":      &graphql.Field{Type: latLngType},
			"caption":       &graphql.Field{Type: graphql.String},
			"captionAligns": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"iconTint":      &graphql.Field{Type: graphql.Float, Description: "ARGB packed"},
		},
	})

	mapStateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapState",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"camera":       &graphql.Field{Type: cameraType},
			"mapType":      &graphql.Field{Type: graphql.String},
			"trackingMode": &graphql.Field{Type: graphql.String},
			"logoAlign":    &graphql.Field{Type: graphql.String},
			"paths":        &graphql.Field{Type: graphql.NewList(pathType)},
			"markers":      &graphql.Field{Type: graphql.NewList(markerType)},
			"updatedAt":    &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"mapState": &graphql.Field{
				Type:        mapStateType,
				Description: "Native state of one map view",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					state, err := deps.Maps.State(p.Context, id)
					if err != nil {
						return nil, err
					}
					return codec.EncodeMapState(state).Any(), nil
				},
			},
			"methods": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Channel methods answered by the service",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Maps.Methods(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
