package actions

import (
	"context"

	"mentordoc/client/internal/gateway"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
)

type SigninRequest struct {
	model.Request

	Email    string
	Password string
}

type SignupRequest struct {
	model.Request

	Email    string
	Password string
}

type FetchCurrentUserRequest struct {
	model.Request
}

func (c *Catalog) signin(ctx context.Context, api *state.API, req SigninRequest) error {
	data, err := api.Gateway.Signin(ctx, gateway.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.startSession(ctx, api, req.Request, data)
}

func (c *Catalog) signup(ctx context.Context, api *state.API, req SignupRequest) error {
	data, err := api.Gateway.Signup(ctx, gateway.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.startSession(ctx, api, req.Request, data)
}

// startSession stores the credentials and loads the user they belong to.
func (c *Catalog) startSession(ctx context.Context, api *state.API, req model.Request, data *model.AuthenticationData) error {
	if data == nil || data.AccessToken == "" {
		return model.NewHTTPError("authentication failed")
	}
	api.Store.Dispatch(state.SetAuthenticationData.Action(state.SetAuthenticationDataPayload{AuthenticationData: data}))
	c.FetchCurrentUser.Run(ctx, api, FetchCurrentUserRequest{Request: req})
	return nil
}

func (c *Catalog) fetchCurrentUser(ctx context.Context, api *state.API, _ FetchCurrentUserRequest) error {
	user, err := api.Gateway.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return model.NewHTTPError("failed to load the current user")
	}
	api.Store.Dispatch(state.SetCurrentUser.Action(state.SetCurrentUserPayload{CurrentUser: user}))
	return nil
}
